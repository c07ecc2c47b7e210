package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "john.doe@x.com", NormalizeEmail("John.Doe@X.com"))
	assert.Equal(t, "john.doe@x.com", NormalizeEmail("  John.Doe@X.com  "))
	assert.Equal(t, "janedoe@y.org", NormalizeEmail("jane doe@y.org"))
	assert.Equal(t, "", NormalizeEmail(""))
}

func TestNormalizeEmailIdempotent(t *testing.T) {
	inputs := []string{"John.Doe@X.com", " MIXED case@Example.COM ", "", "plain@x.com"}
	for _, in := range inputs {
		once := NormalizeEmail(in)
		assert.Equal(t, once, NormalizeEmail(once))
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "5551234567", NormalizePhone("(555) 123-4567"))
	assert.Equal(t, "5551234567", NormalizePhone("+1 (555) 123-4567"))
	assert.Equal(t, "5551234567", NormalizePhone("555.123.4567"))
	// 11 digits not starting with 1 keeps everything
	assert.Equal(t, "25551234567", NormalizePhone("2 555 123 4567"))
	assert.Equal(t, "1234", NormalizePhone("x1234"))
	assert.Equal(t, "", NormalizePhone("no digits here"))
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"+1 (555) 123-4567", "555-1234", "", "18005550100"}
	for _, in := range inputs {
		once := NormalizePhone(in)
		assert.Equal(t, once, NormalizePhone(once))
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "john smith", NormalizeName("John Smith"))
	assert.Equal(t, "john smith", NormalizeName("Dr. John   Smith"))
	assert.Equal(t, "john smith", NormalizeName("MR John Smith"))
	assert.Equal(t, "jane doe", NormalizeName("  Mrs. Jane Doe  "))
	assert.Equal(t, "smith, john", NormalizeName("Smith,  John"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{"Dr. John Smith", "Smith, John", "", "prof Amy Wong"}
	for _, in := range inputs {
		once := NormalizeName(in)
		assert.Equal(t, once, NormalizeName(once))
	}
}

func TestParseCurrency(t *testing.T) {
	assert.Equal(t, 1234.56, ParseCurrency("$1,234.56"))
	assert.Equal(t, 50.0, ParseCurrency("50"))
	assert.Equal(t, -50.0, ParseCurrency("-$50.00"))
	assert.Equal(t, 0.0, ParseCurrency("not a number"))
	assert.Equal(t, 0.0, ParseCurrency(""))
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, "abc", Apply("ABC", "lowercase"))
	// Unknown normalizer passes the value through untouched
	assert.Equal(t, "ABC", Apply("ABC", "does-not-exist"))

	assert.Equal(t, "ab", ApplyChain(" A B ", "remove_whitespace", "lowercase"))
	assert.Equal(t, "5551234567", ApplyChain("+1 (555) 123-4567", "nphone"))

	fn, ok := Get("nemail")
	assert.True(t, ok)
	assert.Equal(t, "a@b.com", fn(" A@B.com "))
}
