// Package cache provides a Redis-backed cache for query results with
// singleflight collapsing of concurrent identical queries.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/civic-records/registry-search/internal/query"
	"github.com/civic-records/registry-search/pkg/config"
	pkgredis "github.com/civic-records/registry-search/pkg/redis"
)

const keyPrefix = "registry:query:"

type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

func New(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

func (c *QueryCache) Get(ctx context.Context, criteria query.Criteria) (*query.Result, bool) {
	key := buildKey(criteria)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if pkgredis.IsNilError(err) {
			c.misses.Add(1)
			return nil, false
		}
		c.logger.Error("cache get failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	var result query.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "key", key)
	return &result, true
}

func (c *QueryCache) Set(ctx context.Context, criteria query.Criteria, result *query.Result) {
	key := buildKey(criteria)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result for criteria, computing and
// caching it on a miss. Concurrent identical queries share one computation.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	criteria query.Criteria,
	computeFn func() (*query.Result, error),
) (*query.Result, bool, error) {
	if result, ok := c.Get(ctx, criteria); ok {
		return result, true, nil
	}
	key := buildKey(criteria)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.Get(ctx, criteria); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, criteria, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*query.Result), false, nil
}

// Invalidate drops every cached query result. Called after a corpus reload,
// since any cached result may reference discarded positions.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating query cache: %w", err)
	}
	c.logger.Info("query cache invalidated", "keys_deleted", deleted)
	return nil
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// buildKey hashes the criteria into a stable cache key. Field values are
// used verbatim: criteria differing only in case are distinct queries.
func buildKey(criteria query.Criteria) string {
	raw := fmt.Sprintf("surname=%s|province=%s|year=%s",
		criteria.Surname, criteria.Province, criteria.Year)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
