package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/boi-gordo/backend/config"
)

type report struct {
	Month string `json:"month"`
	Total string `json:"total"`
}

func newTestCache(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *redisReportCache) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, NewRedisReportCache(client, ttl).(*redisReportCache)
}

func TestRedisReportCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		_, cache := newTestCache(t, time.Minute)

		var got report
		found, err := cache.Get(ctx, "reports:cash-flow:2024-06", &got)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if found {
			t.Fatal("expected miss on empty cache")
		}

		want := report{Month: "2024-06", Total: "1500.00"}
		if err := cache.Set(ctx, "reports:cash-flow:2024-06", want); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		found, err = cache.Get(ctx, "reports:cash-flow:2024-06", &got)
		if err != nil || !found {
			t.Fatalf("expected hit, got found=%v err=%v", found, err)
		}
		if got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("entries expire after TTL", func(t *testing.T) {
		server, cache := newTestCache(t, 30*time.Second)

		if err := cache.Set(ctx, "reports:pen-occupancy", report{Month: "x"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ttl := server.TTL("reports:pen-occupancy"); ttl != 30*time.Second {
			t.Errorf("expected TTL 30s, got %v", ttl)
		}

		server.FastForward(31 * time.Second)

		var got report
		found, _ := cache.Get(ctx, "reports:pen-occupancy", &got)
		if found {
			t.Error("expected expired entry to miss")
		}
	})

	t.Run("non-positive TTL uses default", func(t *testing.T) {
		_, cache := newTestCache(t, 0)
		if cache.ttl != defaultCacheTTL {
			t.Errorf("expected %v, got %v", defaultCacheTTL, cache.ttl)
		}
	})

	t.Run("invalidate prefix keeps other keys", func(t *testing.T) {
		server, cache := newTestCache(t, time.Minute)

		for i := 0; i < 250; i++ {
			key := "reports:lot-profitability:" + time.Duration(i).String()
			if err := cache.Set(ctx, key, report{}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}
		if err := server.Set("session:abc", "keep"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if err := cache.InvalidatePrefix(ctx, "reports:"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		keys := server.Keys()
		if len(keys) != 1 || keys[0] != "session:abc" {
			t.Errorf("expected only session:abc to remain, got %v", keys)
		}
	})

	t.Run("corrupt payload is an error", func(t *testing.T) {
		server, cache := newTestCache(t, time.Minute)
		if err := server.Set("reports:bad", "{not json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var got report
		found, err := cache.Get(ctx, "reports:bad", &got)
		if err == nil {
			t.Fatal("expected decode error, got nil")
		}
		if found {
			t.Error("expected found=false on decode error")
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		server, cache := newTestCache(t, time.Minute)
		server.Close()

		var got report
		if _, err := cache.Get(ctx, "reports:x", &got); err == nil {
			t.Error("expected error from closed server, got nil")
		}
	})
}

func TestNewReportCache(t *testing.T) {
	t.Run("disabled returns noop", func(t *testing.T) {
		cache, err := NewReportCache(config.RedisConfig{Enabled: false})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := cache.Set(context.Background(), "reports:x", report{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var got report
		if found, _ := cache.Get(context.Background(), "reports:x", &got); found {
			t.Error("expected noop cache to miss")
		}
	})

	t.Run("connects by URL", func(t *testing.T) {
		server := miniredis.RunT(t)
		cache, err := NewReportCache(config.RedisConfig{
			Enabled: true,
			URL:     "redis://" + server.Addr() + "/0",
			TTL:     time.Minute,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := cache.Set(context.Background(), "reports:x", report{Month: "2024-01"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !server.Exists("reports:x") {
			t.Error("expected key stored in redis")
		}
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := NewReportCache(config.RedisConfig{Enabled: true, URL: "http://nope"})
		if err == nil {
			t.Error("expected error, got nil")
		}
	})
}
