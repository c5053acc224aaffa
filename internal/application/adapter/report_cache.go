package adapter

import (
	"context"
	"log/slog"
)

// ReportCache defines a read-through cache for computed reports.
type ReportCache interface {
	// Get loads a cached value into dest. Returns false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores a value under key with the cache's default TTL.
	Set(ctx context.Context, key string, value any) error

	// InvalidatePrefix removes every key starting with prefix.
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// ReportCachePrefix namespaces every cached report key. Writes that change
// report inputs invalidate the whole namespace.
const ReportCachePrefix = "reports:"

// InvalidateReports drops every cached report after a write. Failures are only
// logged since the write itself already succeeded.
func InvalidateReports(ctx context.Context, cache ReportCache) {
	if cache == nil {
		return
	}
	if err := cache.InvalidatePrefix(ctx, ReportCachePrefix); err != nil {
		slog.Warn("Failed to invalidate report cache", "error", err)
	}
}
