// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/boi-gordo/backend/internal/domain/entity"
)

// LedgerRepository defines the interface for ledger transaction persistence operations.
type LedgerRepository interface {
	// Create stores a new ledger transaction.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// Update overwrites an existing ledger transaction.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// FindBySource retrieves the transaction derived from a source record.
	// Returns nil, nil when none exists.
	FindBySource(ctx context.Context, sourceType entity.SourceType, sourceID uuid.UUID) (*entity.Transaction, error)

	// FindByIdentity retrieves the transaction with the same reference date, description,
	// amount and category. Returns nil, nil when none exists.
	FindByIdentity(ctx context.Context, transaction *entity.Transaction) (*entity.Transaction, error)

	// FindByReferenceRange retrieves transactions whose reference date is in [start, end].
	FindByReferenceRange(ctx context.Context, start, end time.Time) ([]*entity.Transaction, error)

	// FindByFilter retrieves transactions matching the filter, ordered by reference date.
	FindByFilter(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error)
}

// PeriodAnalysisRepository defines the interface for period analysis persistence operations.
type PeriodAnalysisRepository interface {
	// Upsert creates or replaces the analysis of its reference month.
	Upsert(ctx context.Context, analysis *entity.PeriodAnalysis) error

	// FindByMonth retrieves the analysis of a month (YYYY-MM).
	FindByMonth(ctx context.Context, month string) (*entity.PeriodAnalysis, error)

	// FindByYear retrieves every analysis of a year ordered by month.
	FindByYear(ctx context.Context, year int) ([]*entity.PeriodAnalysis, error)
}
