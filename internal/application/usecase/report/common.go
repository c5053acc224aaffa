// Package report contains read-only report use cases over lots, pens and cash movements.
package report

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/boi-gordo/backend/internal/application/adapter"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

// cacheKey joins parts under the report namespace.
func cacheKey(parts ...string) string {
	return adapter.ReportCachePrefix + strings.Join(parts, ":")
}

// cached returns the cached value under key or computes and stores it.
// Cache failures never fail the report.
func cached[T any](ctx context.Context, cache adapter.ReportCache, key string, compute func() (*T, error)) (*T, error) {
	if cache != nil {
		var hit T
		found, err := cache.Get(ctx, key, &hit)
		if err != nil {
			slog.Warn("Report cache read failed", "key", key, "error", err)
		} else if found {
			return &hit, nil
		}
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.Set(ctx, key, value); err != nil {
			slog.Warn("Report cache write failed", "key", key, "error", err)
		}
	}
	return value, nil
}

func internalError(message string, err error) error {
	var reportErr *domainerror.ReportError
	if errors.As(err, &reportErr) {
		return err
	}
	return domainerror.NewReportError(domainerror.ErrCodeReportInternalError, message, err)
}
