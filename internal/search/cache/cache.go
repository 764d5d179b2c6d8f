// Package cache provides the Redis-backed query-result cache for the search
// service. Keys are hashes of the normalized query and limit; identical
// concurrent misses are collapsed through singleflight, and a circuit
// breaker degrades the cache to pass-through when Redis misbehaves.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/patterngallery/pattern-search/internal/index"
	"github.com/patterngallery/pattern-search/pkg/config"
	pkgredis "github.com/patterngallery/pattern-search/pkg/redis"
	"github.com/patterngallery/pattern-search/pkg/resilience"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "search:"

// ResultCache caches ranked search results in Redis.
type ResultCache struct {
	client  *pkgredis.Client
	cfg     config.RedisConfig
	group   singleflight.Group
	breaker *resilience.CircuitBreaker
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

// New creates a ResultCache backed by the given Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *ResultCache {
	return &ResultCache{
		client:  client,
		cfg:     cfg,
		breaker: resilience.NewCircuitBreaker("query-cache", resilience.CircuitBreakerConfig{}),
		logger:  slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached results for (query, limit), if present.
func (c *ResultCache) Get(ctx context.Context, query string, limit int) ([]index.Result, bool) {
	key := c.buildKey(query, limit)

	var data string
	err := c.breaker.Execute(func() error {
		var getErr error
		data, getErr = c.client.Get(ctx, key)
		if pkgredis.IsNilError(getErr) {
			// A miss is not a Redis failure; don't count it against the
			// breaker.
			return nil
		}
		return getErr
	})
	if err != nil {
		c.logger.Error("cache get failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	if data == "" {
		c.misses.Add(1)
		return nil, false
	}

	var results []index.Result
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "query", query, "key", key)
	return results, true
}

// Set stores results for (query, limit) with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, query string, limit int, results []index.Result) {
	key := c.buildKey(query, limit)
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, key, data, c.cfg.CacheTTL)
	})
	if err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns cached results when present; otherwise it runs
// computeFn exactly once per key across concurrent callers and caches the
// outcome. The second return value reports whether the result was a hit.
func (c *ResultCache) GetOrCompute(
	ctx context.Context,
	query string,
	limit int,
	computeFn func() []index.Result,
) ([]index.Result, bool) {
	if results, ok := c.Get(ctx, query, limit); ok {
		return results, true
	}
	key := c.buildKey(query, limit)
	val, _, _ := c.group.Do(key, func() (interface{}, error) {
		if results, ok := c.Get(ctx, query, limit); ok {
			return results, nil
		}
		results := computeFn()
		c.Set(ctx, query, limit, results)
		return results, nil
	})
	return val.([]index.Result), false
}

// Invalidate removes every cached query result. Called after index rebuilds.
func (c *ResultCache) Invalidate(ctx context.Context) error {
	pattern := keyPrefix + "*"
	deleted, err := c.client.FlushByPattern(ctx, pattern)
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns the hit and miss counters.
func (c *ResultCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// BreakerState exposes the circuit breaker state for metrics.
func (c *ResultCache) BreakerState() resilience.State {
	return c.breaker.GetState()
}

func (c *ResultCache) buildKey(query string, limit int) string {
	raw := fmt.Sprintf("%s:limit=%d", normalizeQuery(query), limit)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

// normalizeQuery lower-cases and collapses whitespace so trivially different
// spellings of the same query share a cache entry.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
