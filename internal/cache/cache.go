// Package cache is a Redis read-through cache over recent insights. Cache
// reads are best effort: a Redis miss or error means hitting the store, a
// failed fill is logged and ignored.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
)

// DefaultTTL bounds staleness between a write on another process and the
// invalidation that follows a local generation.
const DefaultTTL = 60 * time.Second

// InsightCache caches recent-insight reads in Redis, one JSON entry per
// owner.
type InsightCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// New connects to Redis at addr and verifies the connection.
func New(ctx context.Context, addr string, log zerolog.Logger) (*InsightCache, error) {
	opt, err := redis.ParseURL(fmt.Sprintf("redis://%s", addr))
	if err != nil {
		opt = &redis.Options{Addr: addr}
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("New: connecting to redis at %s: %w", addr, err)
	}
	return NewWithClient(client, log), nil
}

// NewWithClient wraps an existing Redis client.
func NewWithClient(client *redis.Client, log zerolog.Logger) *InsightCache {
	return &InsightCache{client: client, ttl: DefaultTTL, log: log}
}

func recentKey(ownerID string) string {
	return fmt.Sprintf("insights:recent:%s", ownerID)
}

// GetRecent returns the cached recent insights of the owner. ok is false on
// a miss, a Redis error or an undecodable entry.
func (c *InsightCache) GetRecent(ctx context.Context, ownerID string) ([]domain.Insight, bool) {
	payload, err := c.client.Get(ctx, recentKey(ownerID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Str("owner_id", ownerID).Err(err).Msg("insight cache read failed")
		}
		return nil, false
	}
	var insights []domain.Insight
	if err := json.Unmarshal([]byte(payload), &insights); err != nil {
		c.log.Warn().Str("owner_id", ownerID).Err(err).Msg("dropping undecodable insight cache entry")
		c.client.Del(ctx, recentKey(ownerID))
		return nil, false
	}
	return insights, true
}

// SetRecent stores the owner's recent insights with the cache TTL.
func (c *InsightCache) SetRecent(ctx context.Context, ownerID string, insights []domain.Insight) {
	payload, err := json.Marshal(insights)
	if err != nil {
		c.log.Warn().Str("owner_id", ownerID).Err(err).Msg("encoding insight cache entry failed")
		return
	}
	if err := c.client.SetEx(ctx, recentKey(ownerID), payload, c.ttl).Err(); err != nil {
		c.log.Warn().Str("owner_id", ownerID).Err(err).Msg("insight cache fill failed")
	}
}

// Invalidate drops the owner's cached entry, typically after a new insight
// is persisted.
func (c *InsightCache) Invalidate(ctx context.Context, ownerID string) {
	if err := c.client.Del(ctx, recentKey(ownerID)).Err(); err != nil {
		c.log.Warn().Str("owner_id", ownerID).Err(err).Msg("insight cache invalidation failed")
	}
}

// Close releases the Redis connection.
func (c *InsightCache) Close() error {
	return c.client.Close()
}
