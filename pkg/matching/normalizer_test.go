package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestNormalizeLeadFieldAliases(t *testing.T) {
	n := NewNormalizer()

	// Capitalized export columns resolve through the alias chain
	lead := n.NormalizeLead(0, models.RawRecord{
		"Email": "John.Doe@X.com",
		"Phone": "(555) 123-4567",
		"Name":  "John Doe",
	})
	assert.Equal(t, "john.doe@x.com", lead.NormalizedEmail)
	assert.Equal(t, "5551234567", lead.NormalizedPhone)
	assert.Equal(t, "john doe", lead.FullName)

	// An empty preferred alias falls through to the next one
	lead = n.NormalizeLead(0, models.RawRecord{
		"email": "",
		"Email": "fallback@x.com",
	})
	assert.Equal(t, "fallback@x.com", lead.NormalizedEmail)
}

func TestNormalizeLeadNameComponents(t *testing.T) {
	n := NewNormalizer()

	lead := n.NormalizeLead(0, models.RawRecord{"contact name": "John Michael Smith"})
	assert.Equal(t, "john", lead.FirstName)
	assert.Equal(t, "michael smith", lead.LastName)
	assert.Equal(t, "j", lead.FirstInitial)

	// Comma form is "last, first"
	lead = n.NormalizeLead(0, models.RawRecord{"contact name": "Smith, John"})
	assert.Equal(t, "john", lead.FirstName)
	assert.Equal(t, "smith", lead.LastName)
	assert.Equal(t, "smith, john", lead.FullName)
}

func TestNormalizeLeadEligibilityFlags(t *testing.T) {
	n := NewNormalizer()

	lead := n.NormalizeLead(0, models.RawRecord{
		"email":        "a@b.com",
		"phone":        "(555) 123-4567",
		"contact name": "Jane Doe",
	})
	assert.True(t, lead.HasEmail)
	assert.True(t, lead.HasPhone)
	assert.True(t, lead.HasName)

	// A 7-digit number is too short to match on
	lead = n.NormalizeLead(0, models.RawRecord{"phone": "555-1234"})
	assert.False(t, lead.HasPhone)
	assert.Equal(t, "5551234", lead.NormalizedPhone)

	empty := n.NormalizeLead(0, models.RawRecord{})
	assert.False(t, empty.HasEmail)
	assert.False(t, empty.HasPhone)
	assert.False(t, empty.HasName)
}

func TestNormalizeLeadNameVariations(t *testing.T) {
	n := NewNormalizer()

	lead := n.NormalizeLead(0, models.RawRecord{"contact name": "Robert Smith"})
	assert.Contains(t, lead.NameVariations, "robert smith")
	assert.Contains(t, lead.NameVariations, "smith robert")
	assert.Contains(t, lead.NameVariations, "smith, robert")
	assert.Contains(t, lead.NameVariations, "r smith")
	assert.Contains(t, lead.NameVariations, "bob smith")

	// No duplicates
	seen := make(map[string]bool)
	for _, v := range lead.NameVariations {
		require.False(t, seen[v], "duplicate variation %q", v)
		seen[v] = true
	}
}

func TestNormalizeCustomerTicketAmount(t *testing.T) {
	n := NewNormalizer()

	customer := n.NormalizeCustomer(0, models.RawRecord{"Ticket Amount": "$1,234.56"})
	assert.Equal(t, 1234.56, customer.TicketAmount)

	// Malformed amounts degrade to zero, never an error
	customer = n.NormalizeCustomer(0, models.RawRecord{"Ticket Amount": "n/a"})
	assert.Equal(t, 0.0, customer.TicketAmount)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	n := NewNormalizer()
	raw := models.RawRecord{"email": " A@B.com ", "contact name": "Dr. Jane Doe"}

	lead := n.NormalizeLead(3, raw)
	assert.Equal(t, 3, lead.SourceIndex)
	assert.Equal(t, " A@B.com ", raw["email"])
	assert.Equal(t, "Dr. Jane Doe", raw["contact name"])
}

func TestNormalizeNumericFields(t *testing.T) {
	n := NewNormalizer()

	// CRM exports sometimes deliver phone numbers as JSON numbers
	lead := n.NormalizeLead(0, models.RawRecord{"phone": float64(5551234567)})
	assert.Equal(t, "5551234567", lead.NormalizedPhone)
	assert.True(t, lead.HasPhone)
}
