package models

// MatchType identifies which tier produced a match and how reliable it is.
type MatchType string

const (
	MatchTypeEmail      MatchType = "email"
	MatchTypePhone      MatchType = "phone"
	MatchTypeNameHigh   MatchType = "name-high"
	MatchTypeNameMedium MatchType = "name-medium"
	MatchTypeNameLow    MatchType = "name-low"
)

// RawRecord is a schema-free lead or customer record as supplied by the
// caller. Field names vary by source (email/Email, contact name/Name, ...);
// the normalizer resolves aliases once, nothing downstream touches raw keys.
type RawRecord map[string]any

// NormalizedLead is the canonical shape of a lead after normalization.
// Immutable once built.
type NormalizedLead struct {
	SourceIndex     int       `json:"source_index"`
	NormalizedEmail string    `json:"normalized_email"`
	NormalizedPhone string    `json:"normalized_phone"`
	FullName        string    `json:"full_name"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	FirstInitial    string    `json:"first_initial"`
	NameVariations  []string  `json:"name_variations"`
	HasEmail        bool      `json:"has_email"`
	HasPhone        bool      `json:"has_phone"`
	HasName         bool      `json:"has_name"`
	Raw             RawRecord `json:"raw"`
}

// NormalizedCustomer is the canonical shape of a customer/transaction record.
type NormalizedCustomer struct {
	SourceIndex     int       `json:"source_index"`
	NormalizedEmail string    `json:"normalized_email"`
	NormalizedPhone string    `json:"normalized_phone"`
	FullName        string    `json:"full_name"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	FirstInitial    string    `json:"first_initial"`
	NameVariations  []string  `json:"name_variations"`
	HasEmail        bool      `json:"has_email"`
	HasPhone        bool      `json:"has_phone"`
	HasName         bool      `json:"has_name"`
	TicketAmount    float64   `json:"ticket_amount"`
	Raw             RawRecord `json:"raw"`
}

// MatchResult pairs one lead with one customer. Created once by a tier
// matcher, never updated afterwards.
type MatchResult struct {
	Lead               NormalizedLead     `json:"lead"`
	Customer           NormalizedCustomer `json:"customer"`
	MatchType          MatchType          `json:"match_type"`
	Confidence         float64            `json:"confidence"` // 0-100
	SupportingFactors  []string           `json:"supporting_factors"`
	ConflictingFactors []string           `json:"conflicting_factors"`
}

// MatchingResult is the complete outcome of one matching run.
type MatchingResult struct {
	Matched            []MatchResult        `json:"matched"`
	UnmatchedLeads     []NormalizedLead     `json:"unmatched_leads"`
	UnmatchedCustomers []NormalizedCustomer `json:"unmatched_customers"`
}

// MatchingStatistics summarizes a MatchingResult. Always recomputed from the
// result, never incremented in place.
type MatchingStatistics struct {
	ByType             map[MatchType]int `json:"by_type"`
	TotalMatched       int               `json:"total_matched"`
	UnmatchedLeads     int               `json:"unmatched_leads"`
	UnmatchedCustomers int               `json:"unmatched_customers"`
}
