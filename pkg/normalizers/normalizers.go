// Package normalizers provides field normalization functions for match indexing
package normalizers

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	// Register built-in normalizers
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("nemail", NormalizeEmail)
	Register("nphone", NormalizePhone)
	Register("nname", NormalizeName)
	Register("digits_only", DigitsOnly)
	Register("remove_whitespace", RemoveWhitespace)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// Built-in normalizers

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail normalizes an email address: lowercase with all whitespace
// removed. Empty in, empty out.
func NormalizeEmail(s string) string {
	return RemoveWhitespace(strings.ToLower(s))
}

// NormalizePhone strips everything but digits, then drops a leading US
// country code when the result is 11 digits starting with 1.
func NormalizePhone(s string) string {
	digits := DigitsOnly(s)
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	return digits
}

var (
	titleRe      = regexp.MustCompile(`(?i)^(mr|mrs|ms|dr|prof)\.?\s+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeName normalizes a person's name for matching:
// strips a leading title (mr, mrs, ms, dr, prof), lowercases, trims, and
// collapses internal whitespace to single spaces.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	s = titleRe.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// DigitsOnly removes all non-digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// RemoveWhitespace removes all whitespace characters
func RemoveWhitespace(s string) string {
	var result strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// ParseCurrency parses a currency-formatted string ("$1,234.56") into a
// float. Everything except digits, '.' and '-' is stripped first. Values
// that still fail to parse come back as 0 rather than an error.
func ParseCurrency(s string) float64 {
	var cleaned strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' {
			cleaned.WriteRune(r)
		}
	}
	amount, err := strconv.ParseFloat(cleaned.String(), 64)
	if err != nil {
		return 0
	}
	return amount
}
