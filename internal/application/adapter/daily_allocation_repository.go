package adapter

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/domain/entity"
)

// DailyAllocationRepository defines the interface for daily cost allocation persistence operations.
type DailyAllocationRepository interface {
	// CreateBatch stores the allocation rows of one run.
	CreateBatch(ctx context.Context, allocations []*entity.DailyCostAllocation) error

	// FindByDate retrieves the rows allocated on a date.
	FindByDate(ctx context.Context, date time.Time) ([]*entity.DailyCostAllocation, error)

	// DeleteByDate removes the rows allocated on a date.
	DeleteByDate(ctx context.Context, date time.Time) error
}

// FeedPriceProvider supplies the feed price per kg in effect on a date.
type FeedPriceProvider interface {
	// PriceOn returns the price for the date, or nil when no price is known.
	PriceOn(ctx context.Context, date time.Time) (*decimal.Decimal, error)
}

// FeedPriceRepository stores the feed price history.
type FeedPriceRepository interface {
	FeedPriceProvider

	// SetPrice records the price effective from a date, replacing one already set for that date.
	SetPrice(ctx context.Context, effectiveFrom time.Time, pricePerKg decimal.Decimal) error
}
