package cache

import (
	"context"
	"encoding/json"
	"time"

	"channel-studio/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// IReportCache is a short-lived JSON cache for read endpoints.
type IReportCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{})
}

// ReportCache caches serialized report responses in Redis with a short
// TTL. A nil Redis client degrades to a no-op.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ReportCache{client: client, ttl: ttl}
}

// Get unmarshals the cached value into dest and reports whether it was a hit.
func (c *ReportCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.GetLogger().WithField("error", err).Warn("report cache get failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.GetLogger().WithField("error", err).Warn("report cache entry not decodable")
		return false
	}
	return true
}

func (c *ReportCache) Set(ctx context.Context, key string, value interface{}) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("report cache entry not encodable")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("report cache set failed")
	}
}
