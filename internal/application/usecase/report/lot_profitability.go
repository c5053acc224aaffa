package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
)

// LotProfitabilityInput selects one lot, or every lot when LotID is nil.
type LotProfitabilityInput struct {
	LotID *uuid.UUID
}

// CostBreakdown mirrors the cost buckets of a lot.
type CostBreakdown struct {
	Acquisition    decimal.Decimal `json:"acquisition"`
	Feed           decimal.Decimal `json:"feed"`
	Health         decimal.Decimal `json:"health"`
	Labor          decimal.Decimal `json:"labor"`
	Infrastructure decimal.Decimal `json:"infrastructure"`
	Freight        decimal.Decimal `json:"freight"`
	Other          decimal.Decimal `json:"other"`
}

// LotPerformance is the profitability of one lot.
type LotPerformance struct {
	LotID             uuid.UUID        `json:"lot_id"`
	Code              string           `json:"code"`
	Status            entity.LotStatus `json:"status"`
	InitialQuantity   int              `json:"initial_quantity"`
	CurrentQuantity   int              `json:"current_quantity"`
	SoldQuantity      int              `json:"sold_quantity"`
	DeadQuantity      int              `json:"dead_quantity"`
	Costs             CostBreakdown    `json:"costs"`
	TotalCost         decimal.Decimal  `json:"total_cost"`
	TotalRevenue      decimal.Decimal  `json:"total_revenue"`
	Profit            decimal.Decimal  `json:"profit"`
	ROI               decimal.Decimal  `json:"roi"`
	Margin            decimal.Decimal  `json:"margin"`
	DaysInConfinement int              `json:"days_in_confinement"`
	AverageDailyGain  *decimal.Decimal `json:"average_daily_gain,omitempty"`
	MortalityRate     decimal.Decimal  `json:"mortality_rate"`
	CostPerHead       decimal.Decimal  `json:"cost_per_head"`
	ProfitPerHead     decimal.Decimal  `json:"profit_per_head"`
}

// ProfitabilitySummary totals every reported lot.
type ProfitabilitySummary struct {
	Lots         int             `json:"lots"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Profit       decimal.Decimal `json:"profit"`
	ROI          decimal.Decimal `json:"roi"`
}

// LotProfitabilityOutput represents the profitability report.
type LotProfitabilityOutput struct {
	Lots     []LotPerformance     `json:"lots"`
	Summary  ProfitabilitySummary `json:"summary"`
	Warnings []string             `json:"warnings,omitempty"`
}

// LotProfitabilityUseCase computes cost, revenue and performance figures per lot.
type LotProfitabilityUseCase struct {
	lots        adapter.LotRepository
	costEvents  adapter.LotCostEventRepository
	sales       adapter.SaleRepository
	mortalities adapter.MortalityRepository
	cache       adapter.ReportCache
	now         func() time.Time
}

// NewLotProfitabilityUseCase creates a new LotProfitabilityUseCase instance.
func NewLotProfitabilityUseCase(
	lots adapter.LotRepository,
	costEvents adapter.LotCostEventRepository,
	sales adapter.SaleRepository,
	mortalities adapter.MortalityRepository,
	cache adapter.ReportCache,
) *LotProfitabilityUseCase {
	return &LotProfitabilityUseCase{
		lots:        lots,
		costEvents:  costEvents,
		sales:       sales,
		mortalities: mortalities,
		cache:       cache,
		now:         time.Now,
	}
}

// Execute returns the report. Costs, sales or mortality that cannot be read degrade
// to zero and are listed in Warnings.
func (uc *LotProfitabilityUseCase) Execute(ctx context.Context, input LotProfitabilityInput) (*LotProfitabilityOutput, error) {
	today := valueobject.TruncateDay(uc.now().UTC())
	scope := "all"
	if input.LotID != nil {
		scope = input.LotID.String()
	}
	key := cacheKey("lot-profitability", scope, valueobject.FormatDate(today))

	return cached(ctx, uc.cache, key, func() (*LotProfitabilityOutput, error) {
		lots, err := uc.loadLots(ctx, input.LotID)
		if err != nil {
			return nil, err
		}
		return uc.build(ctx, lots, today), nil
	})
}

func (uc *LotProfitabilityUseCase) loadLots(ctx context.Context, lotID *uuid.UUID) ([]*entity.Lot, error) {
	if lotID == nil {
		lots, err := uc.lots.FindAll(ctx)
		if err != nil {
			return nil, internalError("failed to read lots", err)
		}
		return lots, nil
	}

	lot, err := uc.lots.FindByID(ctx, *lotID)
	if err != nil {
		if errors.Is(err, domainerror.ErrLotNotFound) {
			return nil, domainerror.NewReportError(domainerror.ErrCodeReportLotNotFound, "lot not found", err)
		}
		return nil, internalError("failed to read lot", err)
	}
	return []*entity.Lot{lot}, nil
}

func (uc *LotProfitabilityUseCase) build(ctx context.Context, lots []*entity.Lot, today time.Time) *LotProfitabilityOutput {
	ids := make([]uuid.UUID, len(lots))
	for i, l := range lots {
		ids[i] = l.ID
	}

	var (
		totals      map[uuid.UUID]entity.LotCostTotals
		sales       []*entity.Sale
		mortalities []*entity.MortalityRecord
		warnings    = make([]string, 3)
	)

	// Each read degrades independently, so none of them cancels the others.
	var g errgroup.Group
	g.Go(func() error {
		var err error
		if totals, err = uc.costEvents.TotalsByLots(ctx, ids); err != nil {
			warnings[0] = degrade("lot costs", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if sales, err = uc.sales.FindByLots(ctx, ids); err != nil {
			warnings[1] = degrade("sales", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if mortalities, err = uc.mortalities.FindByLots(ctx, ids); err != nil {
			warnings[2] = degrade("mortality records", err)
		}
		return nil
	})
	_ = g.Wait()

	revenueByLot := map[uuid.UUID]decimal.Decimal{}
	soldByLot := map[uuid.UUID]int{}
	for _, s := range sales {
		if s.Status == entity.SaleStatusCancelled {
			continue
		}
		revenueByLot[s.LotID] = revenueByLot[s.LotID].Add(s.TotalAmount)
		soldByLot[s.LotID] += s.Quantity
	}
	deadByLot := map[uuid.UUID]int{}
	for _, m := range mortalities {
		deadByLot[m.LotID] += m.Quantity
	}

	output := &LotProfitabilityOutput{
		Lots: make([]LotPerformance, 0, len(lots)),
		Summary: ProfitabilitySummary{
			TotalCost:    decimal.Zero,
			TotalRevenue: decimal.Zero,
			Profit:       decimal.Zero,
		},
	}
	for _, w := range warnings {
		if w != "" {
			output.Warnings = append(output.Warnings, w)
		}
	}

	for _, lot := range lots {
		t, ok := totals[lot.ID]
		if !ok {
			t = entity.LotCostTotals{
				Feed: decimal.Zero, Health: decimal.Zero, Labor: decimal.Zero,
				Infrastructure: decimal.Zero, Freight: decimal.Zero, Other: decimal.Zero,
			}
		}
		p := performance(lot, t, revenueByLot[lot.ID], soldByLot[lot.ID], deadByLot[lot.ID], today)
		output.Lots = append(output.Lots, p)

		output.Summary.Lots++
		output.Summary.TotalCost = output.Summary.TotalCost.Add(p.TotalCost)
		output.Summary.TotalRevenue = output.Summary.TotalRevenue.Add(p.TotalRevenue)
		output.Summary.Profit = output.Summary.Profit.Add(p.Profit)
	}
	output.Summary.ROI = valueobject.PercentOf(output.Summary.Profit, output.Summary.TotalCost)

	return output
}

func degrade(what string, err error) string {
	slog.Warn("Lot profitability degraded", "source", what, "error", err)
	return fmt.Sprintf("%s unavailable, reported as zero", what)
}

// performance derives every figure of one lot. Ratios with a zero denominator are zero.
func performance(lot *entity.Lot, totals entity.LotCostTotals, revenue decimal.Decimal, sold, dead int, today time.Time) LotPerformance {
	totalCost := lot.TotalCost(totals).Round(2)
	revenue = revenue.Round(2)
	profit := revenue.Sub(totalCost)
	initial := decimal.NewFromInt(int64(lot.InitialQuantity))

	p := LotPerformance{
		LotID:           lot.ID,
		Code:            lot.Code,
		Status:          lot.Status,
		InitialQuantity: lot.InitialQuantity,
		CurrentQuantity: lot.CurrentQuantity,
		SoldQuantity:    sold,
		DeadQuantity:    dead,
		Costs: CostBreakdown{
			Acquisition:    lot.AcquisitionCost,
			Feed:           totals.Feed,
			Health:         totals.Health,
			Labor:          totals.Labor,
			Infrastructure: totals.Infrastructure,
			Freight:        totals.Freight,
			Other:          totals.Other,
		},
		TotalCost:     totalCost,
		TotalRevenue:  revenue,
		Profit:        profit,
		ROI:           valueobject.PercentOf(profit, totalCost),
		Margin:        valueobject.PercentOf(profit, revenue),
		MortalityRate: valueobject.PercentOf(decimal.NewFromInt(int64(dead)), initial),
		CostPerHead:   valueobject.Share(totalCost, initial).Round(2),
		ProfitPerHead: decimal.Zero,
	}
	if lot.InitialQuantity > 0 {
		p.ProfitPerHead = profit.Div(initial).Round(2)
	}

	p.DaysInConfinement = daysInConfinement(lot, today)
	p.AverageDailyGain = averageDailyGain(lot, p.DaysInConfinement)
	return p
}

func daysInConfinement(lot *entity.Lot, today time.Time) int {
	if lot.ConfinedAt == nil {
		return 0
	}
	end := today
	if lot.ClosedAt != nil {
		end = *lot.ClosedAt
	}
	return max(valueobject.NewDateRange(*lot.ConfinedAt, end).Days()-1, 0)
}

// averageDailyGain returns kg gained per head per day, or nil when there is no gain to report.
func averageDailyGain(lot *entity.Lot, days int) *decimal.Decimal {
	if days <= 0 || lot.CurrentQuantity <= 0 {
		return nil
	}
	gain := lot.CurrentWeight.Sub(lot.EntryWeight)
	if !gain.IsPositive() {
		return nil
	}
	adg := gain.
		Div(decimal.NewFromInt(int64(lot.CurrentQuantity))).
		Div(decimal.NewFromInt(int64(days))).
		Round(3)
	return &adg
}
