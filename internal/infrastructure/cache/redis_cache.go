// Package cache provides report bundle caching backends.
package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"stockbook/internal/domain/reports"
)

// RedisBundleCache stores serialized report bundles in Redis.
type RedisBundleCache struct {
	client *redis.Client
}

var _ reports.BundleCache = (*RedisBundleCache)(nil)

// NewRedisBundleCache connects a bundle cache to a Redis instance.
func NewRedisBundleCache(addr, password string, db int) *RedisBundleCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisBundleCache{client: client}
}

func (c *RedisBundleCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisBundleCache) Close() error {
	return c.client.Close()
}

func (c *RedisBundleCache) Get(ctx context.Context, key string) (*reports.Bundle, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var b reports.Bundle
	if err := json.Unmarshal([]byte(val), &b); err != nil {
		return nil, false, err
	}
	return &b, true, nil
}

func (c *RedisBundleCache) Set(ctx context.Context, key string, b *reports.Bundle, ttl time.Duration) error {
	if b == nil {
		return nil
	}
	payload, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
