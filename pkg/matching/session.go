package matching

import "github.com/Ramsey-B/fern/pkg/models"

// session holds the state of a single matching run: the normalized record
// arenas plus a liveness flag per index. Records are never removed from the
// arenas; consuming a record just clears its flag, so iteration order stays
// stable and nothing is mutated mid-iteration. Flags only ever go from live
// to consumed, never back.
type session struct {
	leads     []models.NormalizedLead
	customers []models.NormalizedCustomer

	leadLive     []bool
	customerLive []bool

	matched []models.MatchResult
}

func newSession(leads []models.NormalizedLead, customers []models.NormalizedCustomer) *session {
	leadLive := make([]bool, len(leads))
	for i := range leadLive {
		leadLive[i] = true
	}
	customerLive := make([]bool, len(customers))
	for i := range customerLive {
		customerLive[i] = true
	}
	return &session{
		leads:        leads,
		customers:    customers,
		leadLive:     leadLive,
		customerLive: customerLive,
	}
}

// consume records a match and retires both indices. A retired index never
// participates in a later tier.
func (s *session) consume(leadIdx, customerIdx int, result models.MatchResult) {
	s.leadLive[leadIdx] = false
	s.customerLive[customerIdx] = false
	s.matched = append(s.matched, result)
}

func (s *session) leadRemaining(i int) bool     { return s.leadLive[i] }
func (s *session) customerRemaining(i int) bool { return s.customerLive[i] }

// remainingLeads returns the live lead indices in stable input order.
func (s *session) remainingLeads() []int {
	var indices []int
	for i, live := range s.leadLive {
		if live {
			indices = append(indices, i)
		}
	}
	return indices
}

// remainingCustomers returns the live customer indices in stable input order.
func (s *session) remainingCustomers() []int {
	var indices []int
	for i, live := range s.customerLive {
		if live {
			indices = append(indices, i)
		}
	}
	return indices
}

// finalize materializes the leftover records as unmatched lists.
func (s *session) finalize() models.MatchingResult {
	result := models.MatchingResult{
		Matched:            s.matched,
		UnmatchedLeads:     []models.NormalizedLead{},
		UnmatchedCustomers: []models.NormalizedCustomer{},
	}
	for _, i := range s.remainingLeads() {
		result.UnmatchedLeads = append(result.UnmatchedLeads, s.leads[i])
	}
	for _, i := range s.remainingCustomers() {
		result.UnmatchedCustomers = append(result.UnmatchedCustomers, s.customers[i])
	}
	if result.Matched == nil {
		result.Matched = []models.MatchResult{}
	}
	return result
}
