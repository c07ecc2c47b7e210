package matching

import "github.com/Ramsey-B/fern/pkg/models"

// Summarize recomputes match statistics from a completed result. It is pure
// and derives everything from the result each time, so the counts can never
// drift from the matches they describe.
func Summarize(result models.MatchingResult) models.MatchingStatistics {
	byType := make(map[models.MatchType]int)
	for _, match := range result.Matched {
		byType[match.MatchType]++
	}
	return models.MatchingStatistics{
		ByType:             byType,
		TotalMatched:       len(result.Matched),
		UnmatchedLeads:     len(result.UnmatchedLeads),
		UnmatchedCustomers: len(result.UnmatchedCustomers),
	}
}
