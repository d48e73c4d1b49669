// services/cache.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const catalogCacheTTL = 10 * time.Minute

// Cache is a thin read-through layer over Redis for the hot catalog lists.
// A nil client or a Redis fault degrades to the DB silently; caching is never
// allowed to fail a request.
type Cache struct {
	Redis *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{Redis: rdb}
}

func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.Redis == nil {
		return false
	}
	raw, err := c.Redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("⚠️  [cache] get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Printf("⚠️  [cache] corrupt entry %s: %v", key, err)
		c.Redis.Del(ctx, key)
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.Redis == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.Redis.Set(ctx, key, raw, catalogCacheTTL).Err(); err != nil {
		log.Printf("⚠️  [cache] set %s: %v", key, err)
	}
}

// InvalidatePrefix drops every key under a prefix, e.g. "products:".
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c == nil || c.Redis == nil {
		return
	}
	iter := c.Redis.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		c.Redis.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("⚠️  [cache] invalidate %s*: %v", prefix, err)
	}
}
