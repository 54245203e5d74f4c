package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/redis/go-redis/v9"
)

// Cache TTL constants
const (
	StockLevelCacheTTL = 5 * time.Minute // Stock levels - invalidated on every adjustment
	StockListCacheTTL  = 2 * time.Minute
	cacheKeyPrefix     = "tesseract:erp:"
)

// Cache wraps the shared L1/L2 cache layer. A nil redis client disables it.
type Cache struct {
	redis *redis.Client
	layer *cache.CacheLayer
}

func NewCache(redisClient *redis.Client) *Cache {
	c := &Cache{redis: redisClient}

	if redisClient != nil {
		cacheConfig := cache.CacheConfig{
			L1Enabled:  true,
			L1MaxItems: 5000,
			L1TTL:      30 * time.Second,
			DefaultTTL: StockLevelCacheTTL,
			KeyPrefix:  cacheKeyPrefix,
		}
		c.layer = cache.NewCacheLayerFromClient(redisClient, cacheConfig)
	}

	return c
}

// Enabled reports whether redis is configured
func (c *Cache) Enabled() bool {
	return c != nil && c.redis != nil
}

// GetJSON loads a cached value into dest. It returns false on miss or decode error.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}
	val, err := c.redis.Get(ctx, cacheKeyPrefix+key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// SetJSON stores value under key for ttl. Failures are ignored.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.redis.Set(ctx, cacheKeyPrefix+key, data, ttl)
}

func (c *Cache) Delete(ctx context.Context, key string) {
	if c == nil || c.layer == nil {
		return
	}
	_ = c.layer.Delete(ctx, key)
}

func (c *Cache) DeletePattern(ctx context.Context, pattern string) {
	if c == nil || c.layer == nil {
		return
	}
	_ = c.layer.DeletePattern(ctx, pattern)
}

// Health returns the health status of Redis connection
func (c *Cache) Health(ctx context.Context) error {
	if !c.Enabled() {
		return fmt.Errorf("redis not configured")
	}
	return c.redis.Ping(ctx).Err()
}

// Stats returns cache statistics
func (c *Cache) Stats() *cache.CacheStats {
	if c == nil || c.layer == nil {
		return nil
	}
	stats := c.layer.Stats()
	return &stats
}
