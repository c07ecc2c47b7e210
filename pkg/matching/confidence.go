package matching

const (
	supportingFactorBonus = 0.05
	supportingBonusCap    = 0.15
	conflictingPenalty    = 0.10
)

// ConfidenceScore adjusts a base confidence by the collected match signals:
// each supporting factor adds 0.05 (capped at +0.15 total), each
// conflicting factor subtracts 0.10. The result is clamped to [0,1].
func ConfidenceScore(base float64, supporting, conflicting []string) float64 {
	bonus := float64(len(supporting)) * supportingFactorBonus
	if bonus > supportingBonusCap {
		bonus = supportingBonusCap
	}
	score := base + bonus - float64(len(conflicting))*conflictingPenalty
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
