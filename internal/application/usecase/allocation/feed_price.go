package allocation

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/adapter"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
)

// SetFeedPriceInput represents the input for recording a feed price.
type SetFeedPriceInput struct {
	EffectiveFrom time.Time
	PricePerKg    decimal.Decimal
}

// SetFeedPriceUseCase records the feed price used by daily allocations from a date on.
type SetFeedPriceUseCase struct {
	prices adapter.FeedPriceRepository
}

// NewSetFeedPriceUseCase creates a new SetFeedPriceUseCase instance.
func NewSetFeedPriceUseCase(prices adapter.FeedPriceRepository) *SetFeedPriceUseCase {
	return &SetFeedPriceUseCase{prices: prices}
}

// Execute stores the price. Allocations already run keep the price they used.
func (uc *SetFeedPriceUseCase) Execute(ctx context.Context, input SetFeedPriceInput) error {
	if input.EffectiveFrom.IsZero() {
		return invalidDate()
	}
	if !input.PricePerKg.IsPositive() {
		return domainerror.NewAllocationError(
			domainerror.ErrCodeNegativeRate,
			"feed price must be greater than zero",
			nil,
		)
	}

	effectiveFrom := valueobject.TruncateDay(input.EffectiveFrom)
	if err := uc.prices.SetPrice(ctx, effectiveFrom, input.PricePerKg); err != nil {
		return toAllocationError(err, "failed to store feed price")
	}

	slog.Info("Feed price set",
		"effective_from", valueobject.FormatDate(effectiveFrom),
		"price_per_kg", input.PricePerKg.String(),
	)
	return nil
}
