package matching

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// FieldAliases lists the raw keys consulted, in order, for each logical
// field. Alias resolution happens exactly once, during normalization;
// matching code only ever sees the canonical fields.
type FieldAliases struct {
	Email        []string
	Phone        []string
	Name         []string
	TicketAmount []string
}

// DefaultLeadAliases covers the CRM export field names.
func DefaultLeadAliases() FieldAliases {
	return FieldAliases{
		Email: []string{"email", "Email"},
		Phone: []string{"phone", "Phone"},
		Name:  []string{"contact name", "Name"},
	}
}

// DefaultCustomerAliases covers the point-of-sale export field names.
func DefaultCustomerAliases() FieldAliases {
	return FieldAliases{
		Email:        []string{"Email", "email"},
		Phone:        []string{"Phone", "phone"},
		Name:         []string{"Name", "name"},
		TicketAmount: []string{"Ticket Amount", "ticket amount"},
	}
}

// Normalizer converts raw records into their canonical matching shape.
// It is pure: raw records are never mutated and normalization never fails,
// malformed fields degrade to empty values that exclude the record from the
// affected tier.
type Normalizer struct {
	leadAliases     FieldAliases
	customerAliases FieldAliases
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		leadAliases:     DefaultLeadAliases(),
		customerAliases: DefaultCustomerAliases(),
	}
}

// NewNormalizerWithAliases builds a normalizer with caller-supplied alias
// maps, for sources whose exports use different column names.
func NewNormalizerWithAliases(lead, customer FieldAliases) *Normalizer {
	return &Normalizer{leadAliases: lead, customerAliases: customer}
}

// Normalize converts both input sequences in one pass.
func (n *Normalizer) Normalize(rawLeads, rawCustomers []models.RawRecord) ([]models.NormalizedLead, []models.NormalizedCustomer) {
	leads := make([]models.NormalizedLead, len(rawLeads))
	for i, raw := range rawLeads {
		leads[i] = n.NormalizeLead(i, raw)
	}
	customers := make([]models.NormalizedCustomer, len(rawCustomers))
	for i, raw := range rawCustomers {
		customers[i] = n.NormalizeCustomer(i, raw)
	}
	return leads, customers
}

// NormalizeLead builds the canonical form of a single lead record.
func (n *Normalizer) NormalizeLead(index int, raw models.RawRecord) models.NormalizedLead {
	email := normalizers.NormalizeEmail(lookupField(raw, n.leadAliases.Email))
	phone := normalizers.NormalizePhone(lookupField(raw, n.leadAliases.Phone))
	name := normalizers.NormalizeName(lookupField(raw, n.leadAliases.Name))

	first, last := splitNameComponents(name)

	return models.NormalizedLead{
		SourceIndex:     index,
		NormalizedEmail: email,
		NormalizedPhone: phone,
		FullName:        name,
		FirstName:       first,
		LastName:        last,
		FirstInitial:    firstInitial(first),
		NameVariations:  nameVariations(first, last),
		HasEmail:        email != "",
		HasPhone:        len(phone) >= minPhoneDigits,
		HasName:         name != "",
		Raw:             raw,
	}
}

// NormalizeCustomer builds the canonical form of a single customer record.
func (n *Normalizer) NormalizeCustomer(index int, raw models.RawRecord) models.NormalizedCustomer {
	email := normalizers.NormalizeEmail(lookupField(raw, n.customerAliases.Email))
	phone := normalizers.NormalizePhone(lookupField(raw, n.customerAliases.Phone))
	name := normalizers.NormalizeName(lookupField(raw, n.customerAliases.Name))
	ticket := normalizers.ParseCurrency(lookupField(raw, n.customerAliases.TicketAmount))

	first, last := splitNameComponents(name)

	return models.NormalizedCustomer{
		SourceIndex:     index,
		NormalizedEmail: email,
		NormalizedPhone: phone,
		FullName:        name,
		FirstName:       first,
		LastName:        last,
		FirstInitial:    firstInitial(first),
		NameVariations:  nameVariations(first, last),
		HasEmail:        email != "",
		HasPhone:        len(phone) >= minPhoneDigits,
		HasName:         name != "",
		TicketAmount:    ticket,
		Raw:             raw,
	}
}

// minPhoneDigits is the shortest normalized phone considered usable for
// matching (full US number without country code).
const minPhoneDigits = 10

// lookupField returns the first non-empty value among the aliased keys.
func lookupField(raw models.RawRecord, aliases []string) string {
	for _, key := range aliases {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		s := stringifyField(value)
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func stringifyField(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; avoid scientific notation
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// splitNameComponents extracts first/last from an already-normalized name.
// A comma means "last, first" order; otherwise the first token is the first
// name and the remaining tokens form the last name.
func splitNameComponents(name string) (first, last string) {
	if name == "" {
		return "", ""
	}
	if strings.Contains(name, ",") {
		parts := strings.SplitN(name, ",", 2)
		last = strings.TrimSpace(parts[0])
		first = strings.TrimSpace(parts[1])
		return first, last
	}
	tokens := strings.Fields(name)
	first = tokens[0]
	if len(tokens) > 1 {
		last = strings.Join(tokens[1:], " ")
	}
	return first, last
}

func firstInitial(first string) string {
	if first == "" {
		return ""
	}
	return string([]rune(first)[0])
}

// nameVariations generates the alternate spellings a name can be matched
// under: both orderings, the comma form, initial+last, and the configured
// nicknames of the first name.
func nameVariations(first, last string) []string {
	if first == "" && last == "" {
		return nil
	}

	seen := make(map[string]bool)
	var variations []string
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		variations = append(variations, v)
	}

	add(strings.TrimSpace(first + " " + last))
	add(strings.TrimSpace(last + " " + first))
	if first != "" && last != "" {
		add(last + ", " + first)
	}
	add(strings.TrimSpace(firstInitial(first) + " " + last))
	for _, nick := range nicknamesFor(first) {
		add(strings.TrimSpace(nick + " " + last))
	}

	return variations
}
