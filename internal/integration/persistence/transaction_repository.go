// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	"github.com/boi-gordo/backend/internal/integration/persistence/model"
)

// ledgerRepository implements the adapter.LedgerRepository interface.
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository instance.
func NewLedgerRepository(db *gorm.DB) adapter.LedgerRepository {
	return &ledgerRepository{
		db: db,
	}
}

// Create stores a new ledger transaction.
func (r *ledgerRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	result := r.db.WithContext(ctx).Create(model.TransactionFromEntity(transaction))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Update overwrites an existing ledger transaction.
func (r *ledgerRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	result := r.db.WithContext(ctx).Save(model.TransactionFromEntity(transaction))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindBySource retrieves the transaction derived from a source record.
func (r *ledgerRepository) FindBySource(ctx context.Context, sourceType entity.SourceType, sourceID uuid.UUID) (*entity.Transaction, error) {
	return r.first(r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", string(sourceType), sourceID))
}

// FindByIdentity retrieves the transaction sharing the natural ledger key.
func (r *ledgerRepository) FindByIdentity(ctx context.Context, transaction *entity.Transaction) (*entity.Transaction, error) {
	return r.first(r.db.WithContext(ctx).
		Where("reference_date = ?", transaction.ReferenceDate).
		Where("description = ?", transaction.Description).
		Where("amount = ?", transaction.Amount).
		Where("category = ?", string(transaction.Category)))
}

func (r *ledgerRepository) first(query *gorm.DB) (*entity.Transaction, error) {
	var transactionModel model.TransactionModel
	result := query.Order("created_at ASC").First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return transactionModel.ToEntity(), nil
}

// FindByReferenceRange retrieves transactions whose reference date is in [start, end].
func (r *ledgerRepository) FindByReferenceRange(ctx context.Context, start, end time.Time) ([]*entity.Transaction, error) {
	return r.FindByFilter(ctx, entity.TransactionFilter{StartDate: &start, EndDate: &end})
}

// FindByFilter retrieves transactions matching the filter ordered by reference date.
func (r *ledgerRepository) FindByFilter(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&model.TransactionModel{})

	if filter.StartDate != nil {
		query = query.Where("reference_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("reference_date <= ?", *filter.EndDate)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}
	if filter.ImpactsCash != nil {
		query = query.Where("impacts_cash = ?", *filter.ImpactsCash)
	}
	if filter.LotID != nil {
		query = query.Where("lot_id = ?", *filter.LotID)
	}

	var transactionModels []model.TransactionModel
	result := query.Order("reference_date ASC, created_at ASC").Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i, tm := range transactionModels {
		tm := tm
		transactions[i] = tm.ToEntity()
	}
	return transactions, nil
}
