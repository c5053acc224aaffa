package allocation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
)

// DailyIntakeRate is the share of live weight a confined animal eats per day.
var DailyIntakeRate = decimal.RequireFromString("0.03")

// AllocateDailyCostsInput represents the input for allocating one day of costs.
type AllocateDailyCostsInput struct {
	Date  time.Time
	Basis entity.AllocationBasis // defaults to weight
	Rates *entity.DailyRates     // defaults to the configured rates
}

// AllocateDailyCostsOutput represents the result of an allocation run.
type AllocateDailyCostsOutput struct {
	Date             time.Time
	Basis            entity.AllocationBasis
	Skipped          bool
	SkipReason       string
	FarmTotal        decimal.Decimal
	FeedPricePerKg   *decimal.Decimal
	Allocations      []*entity.DailyCostAllocation
	TotalAllocated   decimal.Decimal
	ReplacedPrevious bool
}

// AllocateDailyCostsUseCase distributes a day's shared costs across confined lots.
type AllocateDailyCostsUseCase struct {
	lots          adapter.LotRepository
	interventions adapter.HealthInterventionRepository
	daily         adapter.DailyAllocationRepository
	feedPrices    adapter.FeedPriceProvider
	uow           adapter.UnitOfWork
	cache         adapter.ReportCache
	defaultRates  entity.DailyRates
}

// NewAllocateDailyCostsUseCase creates a new AllocateDailyCostsUseCase instance.
func NewAllocateDailyCostsUseCase(
	lots adapter.LotRepository,
	interventions adapter.HealthInterventionRepository,
	daily adapter.DailyAllocationRepository,
	feedPrices adapter.FeedPriceProvider,
	uow adapter.UnitOfWork,
	cache adapter.ReportCache,
	defaultRates entity.DailyRates,
) *AllocateDailyCostsUseCase {
	return &AllocateDailyCostsUseCase{
		lots:          lots,
		interventions: interventions,
		daily:         daily,
		feedPrices:    feedPrices,
		uow:           uow,
		cache:         cache,
		defaultRates:  defaultRates,
	}
}

// DefaultRates returns the configured daily rates used when a run carries none.
func (uc *AllocateDailyCostsUseCase) DefaultRates() entity.DailyRates {
	return uc.defaultRates
}

// Execute allocates the costs of input.Date. Re-running a date replaces its previous rows
// and cost events instead of adding to them.
func (uc *AllocateDailyCostsUseCase) Execute(ctx context.Context, input AllocateDailyCostsInput) (*AllocateDailyCostsOutput, error) {
	rates, basis, err := uc.validateInput(input)
	if err != nil {
		return nil, err
	}

	date := valueobject.TruncateDay(input.Date)
	logger := slog.With("date", valueobject.FormatDate(date), "basis", basis)
	output := &AllocateDailyCostsOutput{
		Date:           date,
		Basis:          basis,
		FarmTotal:      decimal.Zero,
		TotalAllocated: decimal.Zero,
	}

	lots, err := uc.lots.FindByStatus(ctx, entity.LotStatusConfined)
	if err != nil {
		return nil, toAllocationError(err, "failed to read active lots")
	}

	basisValues := make([]decimal.Decimal, len(lots))
	for i, lot := range lots {
		basisValues[i] = basisValue(lot, basis, date)
		output.FarmTotal = output.FarmTotal.Add(basisValues[i])
	}

	if !output.FarmTotal.IsPositive() {
		output.Skipped = true
		output.SkipReason = "no active lots with a positive allocation basis"
		logger.Info("Daily allocation skipped", "reason", output.SkipReason)
		return output, nil
	}

	feedPrice := rates.FeedPricePerKg
	if feedPrice == nil && uc.feedPrices != nil {
		feedPrice, err = uc.feedPrices.PriceOn(ctx, date)
		if err != nil {
			return nil, toAllocationError(err, "failed to read feed price")
		}
	}
	if feedPrice == nil {
		logger.Warn("No feed price for date, feed cost defaults to zero")
	}
	output.FeedPricePerKg = feedPrice

	health, err := uc.directHealthCosts(ctx, date, lots)
	if err != nil {
		return nil, toAllocationError(err, "failed to read health interventions")
	}

	laborShares := valueobject.DistributeProportionally(rates.Labor, basisValues)
	infraShares := valueobject.DistributeProportionally(rates.Infrastructure, basisValues)
	vetShares := valueobject.DistributeProportionally(rates.Veterinary, basisValues)

	rows := make([]*entity.DailyCostAllocation, 0, len(lots))
	var events []*entity.LotCostEvent
	for i, lot := range lots {
		feed := decimal.Zero
		if feedPrice != nil {
			feed = lot.CurrentWeight.Mul(DailyIntakeRate).Mul(*feedPrice).Round(2)
		}

		row := entity.NewDailyCostAllocation(
			lot.ID,
			date,
			basis,
			basisValues[i],
			valueobject.Share(basisValues[i], output.FarmTotal).Round(6),
			feed,
			laborShares[i],
			infraShares[i],
			vetShares[i],
			health[lot.ID],
		)
		rows = append(rows, row)
		events = append(events, row.CostEvents()...)
		output.TotalAllocated = output.TotalAllocated.Add(row.TotalCost)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		previous, err := repos.DailyAllocations.FindByDate(ctx, date)
		if err != nil {
			return err
		}
		if len(previous) > 0 {
			output.ReplacedPrevious = true
			if err := repos.DailyAllocations.DeleteByDate(ctx, date); err != nil {
				return err
			}
			if err := repos.CostEvents.DeleteBySourceOn(ctx, entity.CostSourceDailyAllocation, date); err != nil {
				return err
			}
		}

		if err := repos.DailyAllocations.CreateBatch(ctx, rows); err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		return repos.CostEvents.CreateBatch(ctx, events)
	})
	if err != nil {
		return nil, toAllocationError(err, "failed to store daily allocation")
	}

	adapter.InvalidateReports(ctx, uc.cache)
	output.Allocations = rows

	logger.Info("Daily allocation completed",
		"lots", len(rows),
		"farm_total", output.FarmTotal.String(),
		"total_allocated", output.TotalAllocated.StringFixed(2),
		"replaced_previous", output.ReplacedPrevious,
	)
	return output, nil
}

func (uc *AllocateDailyCostsUseCase) validateInput(input AllocateDailyCostsInput) (entity.DailyRates, entity.AllocationBasis, error) {
	rates := uc.defaultRates
	if input.Rates != nil {
		rates = *input.Rates
	}
	basis := input.Basis
	if basis == "" {
		basis = entity.AllocationBasisWeight
	}

	if input.Date.IsZero() {
		return rates, basis, invalidDate()
	}
	if !basis.IsValid() {
		return rates, basis, domainerror.NewAllocationError(
			domainerror.ErrCodeInvalidAllocationBasis,
			"basis must be: weight, head_count, or days",
			domainerror.ErrInvalidAllocationBasis,
		)
	}

	for name, v := range map[string]decimal.Decimal{
		"labor":          rates.Labor,
		"infrastructure": rates.Infrastructure,
		"veterinary":     rates.Veterinary,
	} {
		if v.IsNegative() {
			return rates, basis, domainerror.NewAllocationError(
				domainerror.ErrCodeNegativeRate,
				fmt.Sprintf("%s rate must not be negative", name),
				domainerror.ErrNegativeRate,
			)
		}
	}
	if rates.FeedPricePerKg != nil && rates.FeedPricePerKg.IsNegative() {
		return rates, basis, domainerror.NewAllocationError(
			domainerror.ErrCodeNegativeRate,
			"feed price must not be negative",
			domainerror.ErrNegativeRate,
		)
	}

	return rates, basis, nil
}

// directHealthCosts sums the day's lot-specific interventions of the active lots.
func (uc *AllocateDailyCostsUseCase) directHealthCosts(ctx context.Context, date time.Time, lots []*entity.Lot) (map[uuid.UUID]decimal.Decimal, error) {
	costs := make(map[uuid.UUID]decimal.Decimal, len(lots))
	for _, lot := range lots {
		costs[lot.ID] = decimal.Zero
	}
	if uc.interventions == nil {
		return costs, nil
	}

	interventions, err := uc.interventions.FindBetween(ctx, date, date.AddDate(0, 0, 1).Add(-time.Nanosecond))
	if err != nil {
		return nil, err
	}
	for _, h := range interventions {
		current, active := costs[h.LotID]
		if !active {
			slog.Warn("Health intervention for a lot that is not confined, not allocated",
				"intervention_id", h.ID, "lot_id", h.LotID)
			continue
		}
		costs[h.LotID] = current.Add(h.Cost)
	}
	return costs, nil
}

// basisValue returns the lot's weight in the allocation.
func basisValue(lot *entity.Lot, basis entity.AllocationBasis, date time.Time) decimal.Decimal {
	switch basis {
	case entity.AllocationBasisHeadCount:
		return decimal.NewFromInt(int64(lot.CurrentQuantity))
	case entity.AllocationBasisDays:
		if lot.ConfinedAt == nil {
			return decimal.NewFromInt(1)
		}
		days := int64(date.Sub(valueobject.TruncateDay(*lot.ConfinedAt)).Hours()/24) + 1
		if days < 1 {
			days = 1
		}
		return decimal.NewFromInt(days)
	default:
		return lot.CurrentWeight
	}
}

// GetDailyAllocationsInput represents the input for reading a day's allocation rows.
type GetDailyAllocationsInput struct {
	Date time.Time
}

// GetDailyAllocationsUseCase reads the rows stored for a date.
type GetDailyAllocationsUseCase struct {
	daily adapter.DailyAllocationRepository
}

// NewGetDailyAllocationsUseCase creates a new GetDailyAllocationsUseCase instance.
func NewGetDailyAllocationsUseCase(daily adapter.DailyAllocationRepository) *GetDailyAllocationsUseCase {
	return &GetDailyAllocationsUseCase{daily: daily}
}

// Execute returns the allocation rows of the date.
func (uc *GetDailyAllocationsUseCase) Execute(ctx context.Context, input GetDailyAllocationsInput) ([]*entity.DailyCostAllocation, error) {
	if input.Date.IsZero() {
		return nil, invalidDate()
	}
	rows, err := uc.daily.FindByDate(ctx, valueobject.TruncateDay(input.Date))
	if err != nil {
		return nil, toAllocationError(err, "failed to read daily allocation")
	}
	return rows, nil
}
