package matching

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func newTestEngine() *Engine {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewEngine(NewNormalizer(), logger)
}

func TestMatchEmailTier(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Match(context.Background(),
		[]models.RawRecord{{"email": "John.Doe@X.com"}},
		[]models.RawRecord{{"Email": "john.doe@x.com"}},
	)
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	match := result.Matched[0]
	assert.Equal(t, models.MatchTypeEmail, match.MatchType)
	assert.Equal(t, 100.0, match.Confidence)
	assert.Equal(t, []string{"Email match"}, match.SupportingFactors)
	assert.Empty(t, result.UnmatchedLeads)
	assert.Empty(t, result.UnmatchedCustomers)
}

func TestMatchPhoneTierSimilarName(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Match(context.Background(),
		[]models.RawRecord{{"phone": "(555) 123-4567", "contact name": "John Smith"}},
		[]models.RawRecord{{"Phone": "5551234567", "Name": "John Smith"}},
	)
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	match := result.Matched[0]
	assert.Equal(t, models.MatchTypePhone, match.MatchType)
	assert.Greater(t, match.Confidence, 90.0)
	assert.Contains(t, match.SupportingFactors, "Phone match")
	assert.Contains(t, match.SupportingFactors, "Similar name")
	assert.Empty(t, match.ConflictingFactors)
}

func TestMatchPhoneTierDissimilarName(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Match(context.Background(),
		[]models.RawRecord{{"phone": "(555) 123-4567", "contact name": "John Smith"}},
		[]models.RawRecord{{"Phone": "5551234567", "Name": "Xavier Quentin Bloom"}},
	)
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	match := result.Matched[0]
	assert.Equal(t, models.MatchTypePhone, match.MatchType)
	assert.Contains(t, match.ConflictingFactors, "Dissimilar name")
	// 0.9 base + 0.05 for the phone factor - 0.10 for the name conflict
	assert.InDelta(t, 85.0, match.Confidence, 0.001)
}

func TestMatchPhoneTierPrefersSimilarCandidate(t *testing.T) {
	engine := newTestEngine()

	// Both customers share the phone number; the name tie-break must pick
	// the similar one even though the dissimilar one comes first.
	result, err := engine.Match(context.Background(),
		[]models.RawRecord{{"phone": "5551234567", "contact name": "Jane Doe"}},
		[]models.RawRecord{
			{"Phone": "5551234567", "Name": "Zzq Vvx"},
			{"Phone": "5551234567", "Name": "Jane Doe"},
		},
	)
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, 1, result.Matched[0].Customer.SourceIndex)
	require.Len(t, result.UnmatchedCustomers, 1)
	assert.Equal(t, 0, result.UnmatchedCustomers[0].SourceIndex)
}

func TestMatchTierPrecedence(t *testing.T) {
	engine := newTestEngine()

	// The lead matches customer 0 by phone and customer 1 by email; email
	// runs first and must win.
	result, err := engine.Match(context.Background(),
		[]models.RawRecord{{"email": "a@b.com", "phone": "5551234567"}},
		[]models.RawRecord{
			{"Phone": "5551234567"},
			{"Email": "a@b.com"},
		},
	)
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	match := result.Matched[0]
	assert.Equal(t, models.MatchTypeEmail, match.MatchType)
	assert.Equal(t, 1, match.Customer.SourceIndex)
}

func TestMatchNameExactFullName(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Match(context.Background(),
		[]models.RawRecord{{"contact name": "Dr. John Smith"}},
		[]models.RawRecord{{"Name": "john smith"}},
	)
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	match := result.Matched[0]
	assert.Equal(t, models.MatchTypeNameHigh, match.MatchType)
	assert.Equal(t, 95.0, match.Confidence)
	assert.Equal(t, []string{"Exact full name match"}, match.SupportingFactors)
}

func TestMatchNameFirstLast(t *testing.T) {
	engine := newTestEngine()

	// "Smith, John" and "John Smith" have different full-name strings but
	// identical first/last components.
	result, err := engine.Match(context.Background(),
		[]models.RawRecord{{"contact name": "Smith, John"}},
		[]models.RawRecord{{"Name": "John Smith"}},
	)
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	match := result.Matched[0]
	assert.Equal(t, models.MatchTypeNameHigh, match.MatchType)
	assert.Equal(t, 85.0, match.Confidence)
	assert.Equal(t, []string{"First and last name match"}, match.SupportingFactors)
}

func TestMatchNameFuzzyMedium(t *testing.T) {
	engine := newTestEngine()

	// "jon smith" vs "john smith" is 0.9 similar
	result, err := engine.Match(context.Background(),
		[]models.RawRecord{{"contact name": "Jon Smith"}},
		[]models.RawRecord{{"Name": "John Smith"}},
	)
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	match := result.Matched[0]
	assert.Equal(t, models.MatchTypeNameMedium, match.MatchType)
	assert.InDelta(t, 72.0, match.Confidence, 0.001)
	assert.Equal(t, []string{"Name similarity 90%"}, match.SupportingFactors)
}

func TestMatchNameFuzzyLow(t *testing.T) {
	engine := newTestEngine()

	// "john smith" vs "joan smyth" is 0.8 similar
	result, err := engine.Match(context.Background(),
		[]models.RawRecord{{"contact name": "John Smith"}},
		[]models.RawRecord{{"Name": "Joan Smyth"}},
	)
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	match := result.Matched[0]
	assert.Equal(t, models.MatchTypeNameLow, match.MatchType)
	assert.InDelta(t, 56.0, match.Confidence, 0.001)
}

func TestMatchNameInitialLast(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Match(context.Background(),
		[]models.RawRecord{{"contact name": "J Smith"}},
		[]models.RawRecord{{"Name": "James Smith"}},
	)
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	match := result.Matched[0]
	assert.Equal(t, models.MatchTypeNameLow, match.MatchType)
	assert.Equal(t, 65.0, match.Confidence)
	assert.Equal(t, []string{"First initial + last name match"}, match.SupportingFactors)
}

func TestMatchEmptyLeadNeverMatches(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Match(context.Background(),
		[]models.RawRecord{{}},
		[]models.RawRecord{
			{"Email": "a@b.com", "Phone": "5551234567", "Name": "John Smith"},
			{"Name": "Jane Doe"},
		},
	)
	require.NoError(t, err)

	assert.Empty(t, result.Matched)
	require.Len(t, result.UnmatchedLeads, 1)
	assert.Equal(t, 0, result.UnmatchedLeads[0].SourceIndex)
	assert.Len(t, result.UnmatchedCustomers, 2)
}

func TestMatchDuplicateEmailsFirstLeadWins(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Match(context.Background(),
		[]models.RawRecord{
			{"email": "dup@x.com"},
			{"email": "dup@x.com"},
		},
		[]models.RawRecord{{"Email": "dup@x.com"}},
	)
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, 0, result.Matched[0].Lead.SourceIndex)
	require.Len(t, result.UnmatchedLeads, 1)
	assert.Equal(t, 1, result.UnmatchedLeads[0].SourceIndex)
}

func TestMatchNilInput(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Match(context.Background(), nil, []models.RawRecord{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.Match(context.Background(), []models.RawRecord{}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMatchEmptyInput(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Match(context.Background(), []models.RawRecord{}, []models.RawRecord{})
	require.NoError(t, err)
	assert.NotNil(t, result.Matched)
	assert.NotNil(t, result.UnmatchedLeads)
	assert.NotNil(t, result.UnmatchedCustomers)
	assert.Empty(t, result.Matched)
}

func TestMatchNoDoubleMatching(t *testing.T) {
	engine := newTestEngine()

	leads := []models.RawRecord{
		{"email": "a@b.com", "contact name": "Alice Brown"},
		{"phone": "5551234567", "contact name": "Bob White"},
		{"contact name": "Carol Green"},
		{"contact name": "Dan Black"},
		{},
	}
	customers := []models.RawRecord{
		{"Email": "a@b.com"},
		{"Phone": "5551234567", "Name": "Bob White"},
		{"Name": "Carol Green"},
		{"Name": "Unrelated Person"},
	}

	result, err := engine.Match(context.Background(), leads, customers)
	require.NoError(t, err)

	// Every lead index appears exactly once across matched and unmatched
	leadSeen := make(map[int]int)
	customerSeen := make(map[int]int)
	for _, match := range result.Matched {
		leadSeen[match.Lead.SourceIndex]++
		customerSeen[match.Customer.SourceIndex]++
	}
	for _, lead := range result.UnmatchedLeads {
		leadSeen[lead.SourceIndex]++
	}
	for _, customer := range result.UnmatchedCustomers {
		customerSeen[customer.SourceIndex]++
	}

	require.Len(t, leadSeen, len(leads))
	for i := range leads {
		assert.Equal(t, 1, leadSeen[i], "lead %d", i)
	}
	require.Len(t, customerSeen, len(customers))
	for i := range customers {
		assert.Equal(t, 1, customerSeen[i], "customer %d", i)
	}
}

func TestMatchConfidenceBounds(t *testing.T) {
	engine := newTestEngine()

	leads := []models.RawRecord{
		{"email": "a@b.com"},
		{"phone": "5551234567", "contact name": "John Smith"},
		{"phone": "5559876543", "contact name": "John Smith"},
		{"contact name": "Jon Smith"},
		{"contact name": "Robert Smith"},
	}
	customers := []models.RawRecord{
		{"Email": "a@b.com"},
		{"Phone": "5551234567", "Name": "Completely Different"},
		{"Phone": "5559876543", "Name": "John Smith"},
		{"Name": "John Smyth"},
		{"Name": "Bob Smith"},
	}

	result, err := engine.Match(context.Background(), leads, customers)
	require.NoError(t, err)

	for _, match := range result.Matched {
		assert.GreaterOrEqual(t, match.Confidence, 0.0)
		assert.LessOrEqual(t, match.Confidence, 100.0)
	}
}
