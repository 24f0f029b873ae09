// internal/service/dashboard/cache.go
package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"ispadmin-service/internal/domain/dashboard"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPayloadCache keeps assembled chart payloads in Redis for a short
// TTL. Cache failures are logged and treated as misses; the pipeline never
// depends on the cache being up.
type RedisPayloadCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisPayloadCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisPayloadCache {
	return &RedisPayloadCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *RedisPayloadCache) Get(ctx context.Context, key string) (dashboard.ChartPayload, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return dashboard.ChartPayload{}, false
	}
	if err != nil {
		c.logger.Warn("chart cache read failed", zap.String("key", key), zap.Error(err))
		return dashboard.ChartPayload{}, false
	}

	var payload dashboard.ChartPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Warn("chart cache entry corrupt", zap.String("key", key), zap.Error(err))
		return dashboard.ChartPayload{}, false
	}

	return payload, true
}

func (c *RedisPayloadCache) Set(ctx context.Context, key string, payload dashboard.ChartPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		c.logger.Warn("chart cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("chart cache write failed", zap.String("key", key), zap.Error(err))
	}
}
