package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/silverland/property-agent/pkg/logging"
)

// RedisCache backs Cache with a shared Redis instance. Safe for concurrent use
// across conversations; it carries no per-conversation state.
type RedisCache struct {
	client *redis.Client
	logger *logging.Logger
}

// NewRedisCache wraps a redis client.
func NewRedisCache(client *redis.Client, logger *logging.Logger) *RedisCache {
	if client == nil {
		panic("cache: redis client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisCache{client: client, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", "key", key, "error", err)
		}
		return "", false
	}
	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}
