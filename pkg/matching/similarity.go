package matching

import "github.com/Ramsey-B/fern/pkg/models"

// LevenshteinDistance computes the classic edit distance between two
// strings (insert, delete, substitute all cost 1). Inputs are expected to
// be already lowercased; comparison is case-sensitive.
func LevenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Two-row dynamic programming, O(min) memory.
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// StringSimilarity converts edit distance into a [0,1] similarity:
// 1 - distance/maxLen. Two empty strings are identical (1.0); one empty
// string against a non-empty one shares nothing (0).
func StringSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	dist := LevenshteinDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// NameSimilarity scores how alike a lead's and a customer's names are,
// checking the cheap exact signals before falling back to edit distance:
// exact full name, same first+last, swapped first/last, any shared name
// variation, then StringSimilarity on the full names.
func NameSimilarity(lead models.NormalizedLead, customer models.NormalizedCustomer) float64 {
	if lead.FullName == customer.FullName {
		return 1.0
	}
	if lead.FirstName != "" && lead.LastName != "" {
		if lead.FirstName == customer.FirstName && lead.LastName == customer.LastName {
			return 0.95
		}
		if lead.FirstName == customer.LastName && lead.LastName == customer.FirstName {
			return 0.90
		}
	}
	if sharesVariation(lead.NameVariations, customer.NameVariations) {
		return 0.85
	}
	return StringSimilarity(lead.FullName, customer.FullName)
}

func sharesVariation(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if set[v] {
			return true
		}
	}
	return false
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
