package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/boi-gordo/backend/internal/domain/entity"
)

// LotRepository defines the interface for lot persistence operations.
type LotRepository interface {
	// Create stores a new lot.
	Create(ctx context.Context, lot *entity.Lot) error

	// FindByID retrieves a lot by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Lot, error)

	// FindByIDForUpdate retrieves a lot and locks its row until the enclosing transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Lot, error)

	// FindByIDs retrieves lots by ID. Missing IDs are omitted from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Lot, error)

	// FindByStatus retrieves lots in any of the given statuses ordered by code.
	FindByStatus(ctx context.Context, statuses ...entity.LotStatus) ([]*entity.Lot, error)

	// FindAll retrieves every lot ordered by code.
	FindAll(ctx context.Context) ([]*entity.Lot, error)

	// FindPurchasedBetween retrieves lots whose purchase date is in [start, end].
	FindPurchasedBetween(ctx context.Context, start, end time.Time) ([]*entity.Lot, error)

	// Update saves changes to a lot.
	Update(ctx context.Context, lot *entity.Lot) error
}

// LotCostEventRepository defines the interface for the append-only lot cost ledger.
type LotCostEventRepository interface {
	// CreateBatch appends cost events.
	CreateBatch(ctx context.Context, events []*entity.LotCostEvent) error

	// TotalsByLot sums the events of one lot per bucket.
	TotalsByLot(ctx context.Context, lotID uuid.UUID) (entity.LotCostTotals, error)

	// TotalsByLots sums the events of many lots per bucket.
	// Lots without events are absent from the result.
	TotalsByLots(ctx context.Context, lotIDs []uuid.UUID) (map[uuid.UUID]entity.LotCostTotals, error)

	// DeleteBySourceOn removes the events a source produced on a date.
	DeleteBySourceOn(ctx context.Context, source entity.CostEventSource, date time.Time) error
}
