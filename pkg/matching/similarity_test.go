package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, LevenshteinDistance("", ""))
	assert.Equal(t, 3, LevenshteinDistance("abc", ""))
	assert.Equal(t, 3, LevenshteinDistance("", "abc"))
	assert.Equal(t, 0, LevenshteinDistance("smith", "smith"))
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 1, LevenshteinDistance("jon smith", "john smith"))
}

func TestStringSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"john smith", "jon smith"},
		{"michael johnson", "mike johnston"},
		{"", "anything"},
		{"a", "b"},
		{"same", "same"},
	}
	for _, pair := range pairs {
		assert.Equal(t, StringSimilarity(pair[0], pair[1]), StringSimilarity(pair[1], pair[0]))
	}
}

func TestStringSimilarityIdentity(t *testing.T) {
	for _, s := range []string{"", "a", "john smith", "a b c d"} {
		assert.Equal(t, 1.0, StringSimilarity(s, s))
	}
}

func TestStringSimilarityEmpty(t *testing.T) {
	assert.Equal(t, 1.0, StringSimilarity("", ""))
	assert.Equal(t, 0.0, StringSimilarity("", "john"))
	assert.Equal(t, 0.0, StringSimilarity("john", ""))
}

func TestStringSimilarityValues(t *testing.T) {
	assert.InDelta(t, 0.9, StringSimilarity("jon smith", "john smith"), 0.001)
	assert.InDelta(t, 0.8, StringSimilarity("john smith", "joan smyth"), 0.001)
	assert.InDelta(t, 0.6667, StringSimilarity("michael johnson", "mike johnston"), 0.001)
}

func TestNameSimilarityLadder(t *testing.T) {
	n := NewNormalizer()
	lead := func(name string) models.NormalizedLead {
		return n.NormalizeLead(0, models.RawRecord{"contact name": name})
	}
	customer := func(name string) models.NormalizedCustomer {
		return n.NormalizeCustomer(0, models.RawRecord{"Name": name})
	}

	// Exact normalized full name
	assert.Equal(t, 1.0, NameSimilarity(lead("Dr. John Smith"), customer("john smith")))

	// Same first+last assembled differently ("last, first" form)
	assert.Equal(t, 0.95, NameSimilarity(lead("John Smith"), customer("Smith, John")))

	// First and last swapped
	assert.Equal(t, 0.90, NameSimilarity(lead("John Smith"), customer("Smith John")))

	// Shared nickname variation
	assert.Equal(t, 0.85, NameSimilarity(lead("Robert Smith"), customer("Bob Smith")))

	// Edit-distance fallback
	assert.InDelta(t, 0.6667, NameSimilarity(lead("Michael Johnson"), customer("Mike Johnston")), 0.001)
}

func TestNameSimilarityBothMissing(t *testing.T) {
	n := NewNormalizer()
	lead := n.NormalizeLead(0, models.RawRecord{})
	customer := n.NormalizeCustomer(0, models.RawRecord{})
	// Two absent names normalize to the same empty string
	assert.Equal(t, 1.0, NameSimilarity(lead, customer))
}
