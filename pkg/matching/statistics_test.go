package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestSummarize(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Match(context.Background(),
		[]models.RawRecord{
			{"email": "a@b.com"},
			{"phone": "5551234567", "contact name": "John Smith"},
			{"contact name": "Jane Doe"},
			{},
		},
		[]models.RawRecord{
			{"Email": "a@b.com"},
			{"Phone": "5551234567", "Name": "John Smith"},
			{"Name": "Jane Doe"},
		},
	)
	require.NoError(t, err)

	stats := Summarize(result)
	assert.Equal(t, 3, stats.TotalMatched)
	assert.Equal(t, 1, stats.ByType[models.MatchTypeEmail])
	assert.Equal(t, 1, stats.ByType[models.MatchTypePhone])
	assert.Equal(t, 1, stats.ByType[models.MatchTypeNameHigh])
	assert.Equal(t, 1, stats.UnmatchedLeads)
	assert.Equal(t, 0, stats.UnmatchedCustomers)
}

func TestSummarizeEmptyResult(t *testing.T) {
	stats := Summarize(models.MatchingResult{})
	assert.Equal(t, 0, stats.TotalMatched)
	assert.Equal(t, 0, stats.UnmatchedLeads)
	assert.Equal(t, 0, stats.UnmatchedCustomers)
	assert.Empty(t, stats.ByType)
}
