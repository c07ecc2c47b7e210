// Package cache is a TTL response cache over Redis. It fronts the upstream
// CRM so the dashboard does not re-fetch full tables on every reload;
// filtered views get a shorter TTL since they change more often.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/redis"
)

const (
	entryPrefix = "fern:cache:"
	hitsKey     = "fern:cache-stats:hits"
	missesKey   = "fern:cache-stats:misses"
)

// Stats reports cache effectiveness for the maintenance endpoint.
type Stats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

type Cache struct {
	client      *redis.Client
	logger      ectologger.Logger
	defaultTTL  time.Duration
	filteredTTL time.Duration
}

func New(client *redis.Client, logger ectologger.Logger, defaultTTL, filteredTTL time.Duration) *Cache {
	return &Cache{
		client:      client,
		logger:      logger,
		defaultTTL:  defaultTTL,
		filteredTTL: filteredTTL,
	}
}

// Key derives a cache key from the request parts (base, table, filter,
// max records). The digest keeps arbitrary filter formulas out of key space.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return entryPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached payload for a key, recording the hit or miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, key)
	if err != nil {
		if _, incErr := c.client.Incr(ctx, missesKey); incErr != nil {
			c.logger.WithContext(ctx).WithError(incErr).Debug("Failed to record cache miss")
		}
		return nil, false
	}
	if _, err := c.client.Incr(ctx, hitsKey); err != nil {
		c.logger.WithContext(ctx).WithError(err).Debug("Failed to record cache hit")
	}
	return []byte(value), true
}

// Set stores a payload. Filtered entries expire faster than full-table
// fetches.
func (c *Cache) Set(ctx context.Context, key string, value []byte, filtered bool) error {
	ttl := c.defaultTTL
	if filtered {
		ttl = c.filteredTTL
	}
	return c.client.Set(ctx, key, value, ttl)
}

// Stats counts entries and reads the hit/miss counters.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	keys, err := c.client.Keys(ctx, entryPrefix+"*")
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Entries: int64(len(keys))}
	if hits, err := c.client.Get(ctx, hitsKey); err == nil {
		stats.Hits = parseCount(hits)
	}
	if misses, err := c.client.Get(ctx, missesKey); err == nil {
		stats.Misses = parseCount(misses)
	}
	return stats, nil
}

// Clear drops every cache entry and resets the counters.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	keys, err := c.client.Keys(ctx, entryPrefix+"*")
	if err != nil {
		return 0, err
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...); err != nil {
			return 0, err
		}
	}
	if err := c.client.Del(ctx, hitsKey, missesKey); err != nil {
		c.logger.WithContext(ctx).WithError(err).Debug("Failed to reset cache counters")
	}
	c.logger.WithContext(ctx).Infof("Cleared %d cache entries", len(keys))
	return int64(len(keys)), nil
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
