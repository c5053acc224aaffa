package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := Load()

		if cfg.Scheduler.DailyAllocationSpec != "0 23 * * *" {
			t.Errorf("expected daily allocation at 23:00, got %q", cfg.Scheduler.DailyAllocationSpec)
		}
		if cfg.Redis.TTL != 10*time.Minute {
			t.Errorf("expected 10m cache TTL, got %v", cfg.Redis.TTL)
		}
		if cfg.Allocation.FeedPricePerKg != nil {
			t.Errorf("expected no feed price, got %v", cfg.Allocation.FeedPricePerKg)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("DAILY_LABOR_COST", "1250.50")
		t.Setenv("FEED_PRICE_PER_KG", "1.35")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
		t.Setenv("REPORT_CACHE_TTL", "30s")
		t.Setenv("ALERT_WORKER_CONCURRENCY", "4")
		t.Setenv("DB_SLOW_QUERY_THRESHOLD", "1s")

		cfg := Load()

		if cfg.Allocation.DailyLaborCost.String() != "1250.5" {
			t.Errorf("expected labor 1250.5, got %s", cfg.Allocation.DailyLaborCost)
		}
		if cfg.Allocation.FeedPricePerKg == nil || cfg.Allocation.FeedPricePerKg.String() != "1.35" {
			t.Errorf("expected feed price 1.35, got %v", cfg.Allocation.FeedPricePerKg)
		}
		if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
			t.Errorf("expected two trimmed origins, got %v", cfg.CORS.AllowedOrigins)
		}
		if cfg.Redis.TTL != 30*time.Second {
			t.Errorf("expected 30s TTL, got %v", cfg.Redis.TTL)
		}
		if cfg.Notification.Concurrency != 4 {
			t.Errorf("expected 4 alert workers, got %d", cfg.Notification.Concurrency)
		}
		if cfg.Database.SlowQueryThreshold != time.Second {
			t.Errorf("expected 1s slow query threshold, got %v", cfg.Database.SlowQueryThreshold)
		}
	})

	t.Run("invalid values fall back to defaults", func(t *testing.T) {
		t.Setenv("DAILY_VETERINARY_COST", "lots")
		t.Setenv("SERVER_PORT", "http")

		cfg := Load()

		if !cfg.Allocation.DailyVeterinaryCost.IsZero() {
			t.Errorf("expected zero veterinary cost, got %s", cfg.Allocation.DailyVeterinaryCost)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("expected port 8080, got %d", cfg.Server.Port)
		}
	})
}
