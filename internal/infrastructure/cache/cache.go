// Package cache is a thin JSON cache on Redis, used to absorb repeated
// catalog searches. Entries are short-lived; the projector additionally
// drops search entries when catalog-changing events arrive, so a hit
// lags the read model by at most the TTL and usually much less.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr string, ttl time.Duration) *Cache {
	return &Cache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

// Get unmarshals the cached value into dest. A miss, an expired entry or
// a decode failure all report false; the caller recomputes.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.rdb == nil {
		return false
	}

	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores a value under key for the cache TTL. Failures are swallowed;
// the cache is best-effort.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil || c.rdb == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	c.rdb.Set(ctx, key, data, c.ttl)
}

// DeletePrefix removes every key starting with prefix. Used by the
// projector to drop stale search results; best-effort like Set.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) {
	if c == nil || c.rdb == nil {
		return
	}

	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
}

func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
