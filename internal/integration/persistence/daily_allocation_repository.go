package persistence

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	"github.com/boi-gordo/backend/internal/integration/persistence/model"
)

// dailyAllocationRepository implements the adapter.DailyAllocationRepository interface.
type dailyAllocationRepository struct {
	db *gorm.DB
}

// NewDailyAllocationRepository creates a new daily allocation repository instance.
func NewDailyAllocationRepository(db *gorm.DB) adapter.DailyAllocationRepository {
	return &dailyAllocationRepository{
		db: db,
	}
}

// CreateBatch stores the allocation rows of one run.
func (r *dailyAllocationRepository) CreateBatch(ctx context.Context, allocations []*entity.DailyCostAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	models := make([]*model.DailyCostAllocationModel, len(allocations))
	for i, a := range allocations {
		models[i] = model.DailyCostAllocationFromEntity(a)
	}
	return r.db.WithContext(ctx).CreateInBatches(models, 200).Error
}

// FindByDate retrieves the rows allocated on a date.
func (r *dailyAllocationRepository) FindByDate(ctx context.Context, date time.Time) ([]*entity.DailyCostAllocation, error) {
	var models []model.DailyCostAllocationModel
	result := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	rows := make([]*entity.DailyCostAllocation, len(models))
	for i, m := range models {
		m := m
		rows[i] = m.ToEntity()
	}
	return rows, nil
}

// DeleteByDate removes the rows allocated on a date.
func (r *dailyAllocationRepository) DeleteByDate(ctx context.Context, date time.Time) error {
	return r.db.WithContext(ctx).
		Where("date = ?", date).
		Delete(&model.DailyCostAllocationModel{}).Error
}

// FeedPriceRepository stores feed prices and serves the price in effect on a date.
// When no stored price applies the configured fallback is used.
type FeedPriceRepository struct {
	db       *gorm.DB
	fallback *decimal.Decimal
}

// NewFeedPriceRepository creates a new feed price repository instance.
func NewFeedPriceRepository(db *gorm.DB, fallback *decimal.Decimal) *FeedPriceRepository {
	return &FeedPriceRepository{
		db:       db,
		fallback: fallback,
	}
}

// SetPrice records the price effective from a date, replacing one already set for that date.
func (r *FeedPriceRepository) SetPrice(ctx context.Context, effectiveFrom time.Time, pricePerKg decimal.Decimal) error {
	price := &model.FeedPriceModel{
		ID:            uuid.New(),
		EffectiveFrom: effectiveFrom,
		PricePerKg:    pricePerKg,
		CreatedAt:     time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "effective_from"}},
			DoUpdates: clause.AssignmentColumns([]string{"price_per_kg"}),
		}).
		Create(price).Error
}

// PriceOn implements adapter.FeedPriceProvider.
func (r *FeedPriceRepository) PriceOn(ctx context.Context, date time.Time) (*decimal.Decimal, error) {
	var price model.FeedPriceModel
	result := r.db.WithContext(ctx).
		Where("effective_from <= ?", date).
		Order("effective_from DESC").
		First(&price)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if r.fallback == nil {
				slog.Debug("No feed price available", "date", date)
			}
			return r.fallback, nil
		}
		return nil, result.Error
	}
	return &price.PricePerKg, nil
}

var _ adapter.FeedPriceRepository = (*FeedPriceRepository)(nil)
