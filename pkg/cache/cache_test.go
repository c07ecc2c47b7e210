package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/redis"
)

func TestKeyDeterministic(t *testing.T) {
	a := Key("base1", "Leads", "", "100")
	b := Key("base1", "Leads", "", "100")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, entryPrefix))
}

func TestKeyDistinguishesParts(t *testing.T) {
	assert.NotEqual(t, Key("base1", "Leads"), Key("base1", "Customers"))
	assert.NotEqual(t, Key("base1", "Leads", "filter"), Key("base1", "Leads"))
}

func getTestCache(t *testing.T) *Cache {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	client, err := redis.NewClient(redis.Config{Host: "localhost", Port: 6379}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return New(client, logger, 5*time.Minute, time.Minute)
}

func TestCacheRoundTrip(t *testing.T) {
	c := getTestCache(t)
	ctx := context.Background()

	_, err := c.Clear(ctx)
	require.NoError(t, err)

	key := Key("base1", "Leads", "", "100")
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, []byte(`[{"Name":"John"}]`), false))

	payload, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.JSONEq(t, `[{"Name":"John"}]`, string(payload))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	cleared, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)
}
