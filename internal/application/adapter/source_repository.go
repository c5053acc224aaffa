package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/boi-gordo/backend/internal/domain/entity"
)

// RevenueRepository defines the interface for revenue persistence operations.
type RevenueRepository interface {
	// Create stores a new revenue.
	Create(ctx context.Context, revenue *entity.Revenue) error

	// FindReceivedBetween retrieves received revenues whose receipt date is in [start, end].
	FindReceivedBetween(ctx context.Context, start, end time.Time) ([]*entity.Revenue, error)
}

// ExpenseRepository defines the interface for expense persistence operations.
type ExpenseRepository interface {
	// Create stores a new expense.
	Create(ctx context.Context, expense *entity.Expense) error

	// FindPaidBetween retrieves paid expenses whose payment date is in [start, end].
	FindPaidBetween(ctx context.Context, start, end time.Time) ([]*entity.Expense, error)
}

// MortalityRepository defines the interface for mortality record persistence operations.
type MortalityRepository interface {
	// Create stores a new mortality record.
	Create(ctx context.Context, record *entity.MortalityRecord) error

	// Update saves changes to a mortality record.
	Update(ctx context.Context, record *entity.MortalityRecord) error

	// FindBetween retrieves records whose death date is in [start, end].
	FindBetween(ctx context.Context, start, end time.Time) ([]*entity.MortalityRecord, error)

	// FindByLots retrieves the records of the given lots.
	FindByLots(ctx context.Context, lotIDs []uuid.UUID) ([]*entity.MortalityRecord, error)
}

// SaleRepository defines the interface for sale persistence operations.
type SaleRepository interface {
	// Create stores a new sale.
	Create(ctx context.Context, sale *entity.Sale) error

	// FindByLots retrieves the sales of the given lots.
	FindByLots(ctx context.Context, lotIDs []uuid.UUID) ([]*entity.Sale, error)
}

// ContributionRepository defines the interface for partner contribution persistence operations.
type ContributionRepository interface {
	// Create stores a new contribution.
	Create(ctx context.Context, contribution *entity.Contribution) error

	// FindBetween retrieves contributions dated in [start, end].
	FindBetween(ctx context.Context, start, end time.Time) ([]*entity.Contribution, error)
}

// HealthInterventionRepository defines the interface for health intervention persistence operations.
type HealthInterventionRepository interface {
	// Create stores a new intervention.
	Create(ctx context.Context, intervention *entity.HealthIntervention) error

	// FindBetween retrieves interventions applied in [start, end].
	FindBetween(ctx context.Context, start, end time.Time) ([]*entity.HealthIntervention, error)
}
