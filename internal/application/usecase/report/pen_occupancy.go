package report

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
)

// PenLot is a lot currently placed in a pen.
type PenLot struct {
	LotID    uuid.UUID `json:"lot_id"`
	Code     string    `json:"code"`
	Quantity int       `json:"quantity"`
}

// PenOccupancy is the utilization of one pen.
type PenOccupancy struct {
	PenID         uuid.UUID       `json:"pen_id"`
	Number        string          `json:"number"`
	Capacity      int             `json:"capacity"`
	Occupied      int             `json:"occupied"`
	Available     int             `json:"available"`
	OccupancyRate decimal.Decimal `json:"occupancy_rate"`
	Lots          []PenLot        `json:"lots"`
}

// OccupancySummary totals every active pen.
type OccupancySummary struct {
	Pens          int             `json:"pens"`
	TotalCapacity int             `json:"total_capacity"`
	TotalOccupied int             `json:"total_occupied"`
	Available     int             `json:"available"`
	OccupancyRate decimal.Decimal `json:"occupancy_rate"`
}

// PenOccupancyOutput represents the pen occupancy report.
type PenOccupancyOutput struct {
	Pens    []PenOccupancy   `json:"pens"`
	Summary OccupancySummary `json:"summary"`
}

// PenOccupancyUseCase reports how full each active pen is.
type PenOccupancyUseCase struct {
	pens        adapter.PenRepository
	allocations adapter.PenAllocationRepository
	lots        adapter.LotRepository
	cache       adapter.ReportCache
}

// NewPenOccupancyUseCase creates a new PenOccupancyUseCase instance.
func NewPenOccupancyUseCase(
	pens adapter.PenRepository,
	allocations adapter.PenAllocationRepository,
	lots adapter.LotRepository,
	cache adapter.ReportCache,
) *PenOccupancyUseCase {
	return &PenOccupancyUseCase{
		pens:        pens,
		allocations: allocations,
		lots:        lots,
		cache:       cache,
	}
}

// Execute returns one entry per active pen ordered by number.
// The occupancy rate is not capped at 100.
func (uc *PenOccupancyUseCase) Execute(ctx context.Context) (*PenOccupancyOutput, error) {
	return cached(ctx, uc.cache, cacheKey("pen-occupancy"), func() (*PenOccupancyOutput, error) {
		return uc.build(ctx)
	})
}

func (uc *PenOccupancyUseCase) build(ctx context.Context) (*PenOccupancyOutput, error) {
	var (
		pens        []*entity.Pen
		allocations []*entity.PenAllocation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pens, err = uc.pens.FindActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		allocations, err = uc.allocations.FindActive(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internalError("failed to read pens", err)
	}

	codes := uc.lotCodes(ctx, allocations)

	byPen := make(map[uuid.UUID][]*entity.PenAllocation, len(pens))
	for _, a := range allocations {
		byPen[a.PenID] = append(byPen[a.PenID], a)
	}

	output := &PenOccupancyOutput{Pens: make([]PenOccupancy, 0, len(pens))}
	for _, pen := range pens {
		row := PenOccupancy{
			PenID:    pen.ID,
			Number:   pen.Number,
			Capacity: pen.Capacity,
			Lots:     []PenLot{},
		}

		placed := map[uuid.UUID]int{}
		for _, a := range byPen[pen.ID] {
			row.Occupied += a.Quantity
			placed[a.LotID] += a.Quantity
		}
		for lotID, qty := range placed {
			row.Lots = append(row.Lots, PenLot{LotID: lotID, Code: codes[lotID], Quantity: qty})
		}
		sort.Slice(row.Lots, func(i, j int) bool { return row.Lots[i].Code < row.Lots[j].Code })

		row.Available = max(pen.Capacity-row.Occupied, 0)
		row.OccupancyRate = rate(row.Occupied, pen.Capacity)
		output.Pens = append(output.Pens, row)

		output.Summary.Pens++
		output.Summary.TotalCapacity += pen.Capacity
		output.Summary.TotalOccupied += row.Occupied
		output.Summary.Available += row.Available
	}
	sort.Slice(output.Pens, func(i, j int) bool { return output.Pens[i].Number < output.Pens[j].Number })
	output.Summary.OccupancyRate = rate(output.Summary.TotalOccupied, output.Summary.TotalCapacity)

	return output, nil
}

// lotCodes resolves lot codes for display. A failed lookup leaves codes empty.
func (uc *PenOccupancyUseCase) lotCodes(ctx context.Context, allocations []*entity.PenAllocation) map[uuid.UUID]string {
	seen := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0, len(allocations))
	for _, a := range allocations {
		if !seen[a.LotID] {
			seen[a.LotID] = true
			ids = append(ids, a.LotID)
		}
	}

	codes := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return codes
	}
	lots, err := uc.lots.FindByIDs(ctx, ids)
	if err != nil {
		slog.Warn("Pen occupancy without lot codes", "error", err)
		return codes
	}
	for _, l := range lots {
		codes[l.ID] = l.Code
	}
	return codes
}

func rate(occupied, capacity int) decimal.Decimal {
	return valueobject.PercentOf(decimal.NewFromInt(int64(occupied)), decimal.NewFromInt(int64(capacity)))
}
