package matching

import (
	"fmt"
	"sort"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Tier confidence constants. Only the phone tier computes its confidence;
// the others are fixed by tier reliability.
const (
	emailConfidence         = 100
	phoneBaseConfidence     = 0.9
	exactNameConfidence     = 95
	firstLastConfidence     = 85
	fuzzyMediumMultiplier   = 80
	fuzzyLowMultiplier      = 70
	initialLastConfidence   = 65
	fuzzyCandidateThreshold = 0.7
	fuzzyMediumThreshold    = 0.85
	similarNameThreshold    = 0.7
	dissimilarNameThreshold = 0.3
)

// emailTier pairs leads and customers on exact normalized email. Highest
// reliability, always runs first.
func emailTier(s *session) {
	byEmail := make(map[string][]int)
	for i, customer := range s.customers {
		if customer.HasEmail {
			byEmail[customer.NormalizedEmail] = append(byEmail[customer.NormalizedEmail], i)
		}
	}

	for _, li := range s.remainingLeads() {
		lead := s.leads[li]
		if !lead.HasEmail {
			continue
		}
		ci, ok := firstRemaining(s, byEmail[lead.NormalizedEmail])
		if !ok {
			continue
		}
		s.consume(li, ci, models.MatchResult{
			Lead:               lead,
			Customer:           s.customers[ci],
			MatchType:          models.MatchTypeEmail,
			Confidence:         emailConfidence,
			SupportingFactors:  []string{"Email match"},
			ConflictingFactors: []string{},
		})
	}
}

// phoneTier pairs on exact normalized phone, breaking ties between
// candidates sharing a number by name similarity.
func phoneTier(s *session) {
	byPhone := make(map[string][]int)
	for i, customer := range s.customers {
		if customer.HasPhone {
			byPhone[customer.NormalizedPhone] = append(byPhone[customer.NormalizedPhone], i)
		}
	}

	for _, li := range s.remainingLeads() {
		lead := s.leads[li]
		if !lead.HasPhone {
			continue
		}

		var candidates []int
		for _, ci := range byPhone[lead.NormalizedPhone] {
			if s.customerRemaining(ci) {
				candidates = append(candidates, ci)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		similarities := make(map[int]float64, len(candidates))
		for _, ci := range candidates {
			similarities[ci] = NameSimilarity(lead, s.customers[ci])
		}
		// Stable sort keeps input order for equal similarities, so the
		// first remaining candidate wins ties deterministically.
		sort.SliceStable(candidates, func(a, b int) bool {
			return similarities[candidates[a]] > similarities[candidates[b]]
		})

		best := candidates[0]
		similarity := similarities[best]

		supporting := []string{"Phone match"}
		conflicting := []string{}
		if similarity > similarNameThreshold {
			supporting = append(supporting, "Similar name")
		} else if similarity < dissimilarNameThreshold {
			conflicting = append(conflicting, "Dissimilar name")
		}

		s.consume(li, best, models.MatchResult{
			Lead:               lead,
			Customer:           s.customers[best],
			MatchType:          models.MatchTypePhone,
			Confidence:         ConfidenceScore(phoneBaseConfidence, supporting, conflicting) * 100,
			SupportingFactors:  supporting,
			ConflictingFactors: conflicting,
		})
	}
}

// nameTier runs four sub-passes in decreasing reliability order. Each
// sub-pass consumes its matches before the next one indexes the leftovers,
// so no record is matched twice within or across passes.
func nameTier(s *session) {
	exactFullNamePass(s)
	firstLastPass(s)
	fuzzyFullNamePass(s)
	initialLastPass(s)
}

func exactFullNamePass(s *session) {
	byName := make(map[string][]int)
	for _, ci := range s.remainingCustomers() {
		customer := s.customers[ci]
		if customer.HasName {
			byName[customer.FullName] = append(byName[customer.FullName], ci)
		}
	}

	for _, li := range s.remainingLeads() {
		lead := s.leads[li]
		if !lead.HasName {
			continue
		}
		ci, ok := firstRemaining(s, byName[lead.FullName])
		if !ok {
			continue
		}
		s.consume(li, ci, models.MatchResult{
			Lead:               lead,
			Customer:           s.customers[ci],
			MatchType:          models.MatchTypeNameHigh,
			Confidence:         exactNameConfidence,
			SupportingFactors:  []string{"Exact full name match"},
			ConflictingFactors: []string{},
		})
	}
}

// firstLastPass matches when first and last name agree independently of how
// the full name was assembled.
func firstLastPass(s *session) {
	byFirst := make(map[string][]int)
	byLast := make(map[string][]int)
	for _, ci := range s.remainingCustomers() {
		customer := s.customers[ci]
		if customer.FirstName != "" {
			byFirst[customer.FirstName] = append(byFirst[customer.FirstName], ci)
		}
		if customer.LastName != "" {
			byLast[customer.LastName] = append(byLast[customer.LastName], ci)
		}
	}

	for _, li := range s.remainingLeads() {
		lead := s.leads[li]
		if lead.FirstName == "" || lead.LastName == "" {
			continue
		}

		inLast := make(map[int]bool)
		for _, ci := range byLast[lead.LastName] {
			inLast[ci] = true
		}

		for _, ci := range byFirst[lead.FirstName] {
			if !inLast[ci] || !s.customerRemaining(ci) {
				continue
			}
			s.consume(li, ci, models.MatchResult{
				Lead:               lead,
				Customer:           s.customers[ci],
				MatchType:          models.MatchTypeNameHigh,
				Confidence:         firstLastConfidence,
				SupportingFactors:  []string{"First and last name match"},
				ConflictingFactors: []string{},
			})
			break
		}
	}
}

// fuzzyFullNamePass compares every remaining lead name against every
// remaining customer name by edit distance. Dominant cost on large pools.
func fuzzyFullNamePass(s *session) {
	for _, li := range s.remainingLeads() {
		lead := s.leads[li]
		if !lead.HasName {
			continue
		}

		bestIdx := -1
		bestSim := fuzzyCandidateThreshold
		for _, ci := range s.remainingCustomers() {
			customer := s.customers[ci]
			if !customer.HasName {
				continue
			}
			sim := StringSimilarity(lead.FullName, customer.FullName)
			if sim > bestSim {
				bestSim = sim
				bestIdx = ci
			}
		}
		if bestIdx < 0 {
			continue
		}

		matchType := models.MatchTypeNameLow
		confidence := bestSim * fuzzyLowMultiplier
		if bestSim > fuzzyMediumThreshold {
			matchType = models.MatchTypeNameMedium
			confidence = bestSim * fuzzyMediumMultiplier
		}

		s.consume(li, bestIdx, models.MatchResult{
			Lead:               lead,
			Customer:           s.customers[bestIdx],
			MatchType:          matchType,
			Confidence:         confidence,
			SupportingFactors:  []string{fmt.Sprintf("Name similarity %.0f%%", bestSim*100)},
			ConflictingFactors: []string{},
		})
	}
}

func initialLastPass(s *session) {
	byKey := make(map[string][]int)
	for _, ci := range s.remainingCustomers() {
		customer := s.customers[ci]
		if key := initialLastKey(customer.FirstInitial, customer.LastName); key != "" {
			byKey[key] = append(byKey[key], ci)
		}
	}

	for _, li := range s.remainingLeads() {
		lead := s.leads[li]
		key := initialLastKey(lead.FirstInitial, lead.LastName)
		if key == "" {
			continue
		}
		ci, ok := firstRemaining(s, byKey[key])
		if !ok {
			continue
		}
		s.consume(li, ci, models.MatchResult{
			Lead:               lead,
			Customer:           s.customers[ci],
			MatchType:          models.MatchTypeNameLow,
			Confidence:         initialLastConfidence,
			SupportingFactors:  []string{"First initial + last name match"},
			ConflictingFactors: []string{},
		})
	}
}

func initialLastKey(initial, last string) string {
	if initial == "" || last == "" {
		return ""
	}
	return initial + "_" + last
}

// firstRemaining returns the first candidate index that has not been
// consumed yet. Candidate lists are built in index order, so "first" is the
// stable tie-break used everywhere.
func firstRemaining(s *session, candidates []int) (int, bool) {
	for _, ci := range candidates {
		if s.customerRemaining(ci) {
			return ci, true
		}
	}
	return -1, false
}
