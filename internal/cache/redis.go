package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache is a read-through cache for rendered report payloads. A nil
// *ReportCache is valid and caches nothing, so callers never branch on
// whether redis is configured.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis at addr. An empty addr disables caching.
func New(addr string, ttl time.Duration) (*ReportCache, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &ReportCache{client: client, ttl: ttl}, nil
}

// Get returns the cached payload for key, if any
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Set stores a payload under key for the configured TTL
func (c *ReportCache) Set(ctx context.Context, key string, payload []byte) {
	if c == nil {
		return
	}
	// Cache failures are invisible to callers; the next read goes to the DB.
	c.client.Set(ctx, key, payload, c.ttl)
}

// Invalidate drops the given keys
func (c *ReportCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

// Close releases the redis connection
func (c *ReportCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
