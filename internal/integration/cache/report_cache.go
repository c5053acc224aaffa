// Package cache implements the report cache on Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/boi-gordo/backend/config"
	"github.com/boi-gordo/backend/internal/application/adapter"
)

const (
	scanBatchSize   = 100
	defaultCacheTTL = time.Minute
)

// redisReportCache implements the adapter.ReportCache interface.
type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// noopReportCache never stores anything. Used when Redis is disabled.
type noopReportCache struct{}

// NewReportCache connects to Redis and returns a report cache, or a no-op cache
// when caching is disabled.
func NewReportCache(cfg config.RedisConfig) (adapter.ReportCache, error) {
	if !cfg.Enabled {
		return NewNoopReportCache(), nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisReportCache(client, cfg.TTL), nil
}

// NewRedisReportCache wraps an existing client. A non-positive ttl uses the default.
func NewRedisReportCache(client *redis.Client, ttl time.Duration) adapter.ReportCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisReportCache{
		client: client,
		ttl:    ttl,
	}
}

// NewNoopReportCache returns a cache that always misses.
func NewNoopReportCache() adapter.ReportCache {
	return &noopReportCache{}
}

func buildRedisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	return opts, nil
}

// Get implements adapter.ReportCache.
func (c *redisReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode cached report %s: %w", key, err)
	}
	return true, nil
}

// Set implements adapter.ReportCache.
func (c *redisReportCache) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached report %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// InvalidatePrefix implements adapter.ReportCache.
func (c *redisReportCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (noopReportCache) Get(context.Context, string, any) (bool, error) { return false, nil }

func (noopReportCache) Set(context.Context, string, any) error { return nil }

func (noopReportCache) InvalidatePrefix(context.Context, string) error { return nil }
