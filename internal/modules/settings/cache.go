package settings

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKey = "settings:v1"
	cacheTTL = 5 * time.Minute
)

// Cache is a Redis look-aside cache for the settings row. A miss or a Redis
// failure is never fatal; callers fall through to the database.
type Cache struct {
	redis *redis.Client
}

func NewCache(redis *redis.Client) *Cache {
	return &Cache{redis: redis}
}

func (c *Cache) Get(ctx context.Context) (Settings, bool) {
	val, err := c.redis.Get(ctx, cacheKey).Result()
	if err != nil {
		return Settings{}, false
	}
	var st Settings
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		return Settings{}, false
	}
	return st, true
}

func (c *Cache) Set(ctx context.Context, st Settings) {
	raw, err := json.Marshal(st)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, cacheKey, raw, cacheTTL).Err()
}

func (c *Cache) Invalidate(ctx context.Context) {
	_ = c.redis.Del(ctx, cacheKey).Err()
}
