package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/boi-gordo/backend/internal/domain/entity"
)

// PenRepository defines the interface for pen persistence operations.
type PenRepository interface {
	// Create stores a new pen.
	Create(ctx context.Context, pen *entity.Pen) error

	// Update saves changes to a pen.
	Update(ctx context.Context, pen *entity.Pen) error

	// FindByID retrieves a pen by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Pen, error)

	// FindByIDForUpdate retrieves a pen and locks its row until the enclosing transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Pen, error)

	// FindActive retrieves active pens ordered by number.
	FindActive(ctx context.Context) ([]*entity.Pen, error)
}

// PenAllocationRepository defines the interface for lot-in-pen allocation persistence operations.
type PenAllocationRepository interface {
	// Create stores a new allocation.
	Create(ctx context.Context, allocation *entity.PenAllocation) error

	// Update saves changes to an allocation.
	Update(ctx context.Context, allocation *entity.PenAllocation) error

	// FindByID retrieves an allocation by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PenAllocation, error)

	// FindActiveByLot retrieves active allocations of a lot, oldest first.
	FindActiveByLot(ctx context.Context, lotID uuid.UUID) ([]*entity.PenAllocation, error)

	// FindActiveByPen retrieves active allocations of a pen, oldest first.
	FindActiveByPen(ctx context.Context, penID uuid.UUID) ([]*entity.PenAllocation, error)

	// FindActive retrieves every active allocation.
	FindActive(ctx context.Context) ([]*entity.PenAllocation, error)

	// SumActiveByPen returns the head count currently placed in a pen.
	SumActiveByPen(ctx context.Context, penID uuid.UUID) (int, error)
}
