package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/integration/persistence/model"
)

// lotRepository implements the adapter.LotRepository interface.
type lotRepository struct {
	db *gorm.DB
}

// NewLotRepository creates a new lot repository instance.
func NewLotRepository(db *gorm.DB) adapter.LotRepository {
	return &lotRepository{
		db: db,
	}
}

// Create stores a new lot.
func (r *lotRepository) Create(ctx context.Context, lot *entity.Lot) error {
	result := r.db.WithContext(ctx).Create(model.LotFromEntity(lot))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a lot by its ID.
func (r *lotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Lot, error) {
	return r.findOne(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves a lot and locks its row until the transaction ends.
func (r *lotRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Lot, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *lotRepository) findOne(query *gorm.DB, id uuid.UUID) (*entity.Lot, error) {
	var lotModel model.LotModel
	result := query.Where("id = ?", id).First(&lotModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrLotNotFound
		}
		return nil, result.Error
	}
	return lotModel.ToEntity(), nil
}

// FindByIDs retrieves the lots with the given IDs.
func (r *lotRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Lot, error) {
	if len(ids) == 0 {
		return []*entity.Lot{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("id IN ?", ids))
}

// FindByStatus retrieves lots in any of the given statuses.
func (r *lotRepository) FindByStatus(ctx context.Context, statuses ...entity.LotStatus) ([]*entity.Lot, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return r.find(r.db.WithContext(ctx).Where("status IN ?", values))
}

// FindAll retrieves every lot.
func (r *lotRepository) FindAll(ctx context.Context) ([]*entity.Lot, error) {
	return r.find(r.db.WithContext(ctx))
}

// FindPurchasedBetween retrieves lots whose purchase date is in [start, end].
func (r *lotRepository) FindPurchasedBetween(ctx context.Context, start, end time.Time) ([]*entity.Lot, error) {
	return r.find(r.db.WithContext(ctx).Where("purchase_date BETWEEN ? AND ?", start, end))
}

func (r *lotRepository) find(query *gorm.DB) ([]*entity.Lot, error) {
	var lotModels []model.LotModel
	result := query.Order("code ASC").Find(&lotModels)
	if result.Error != nil {
		return nil, result.Error
	}

	lots := make([]*entity.Lot, len(lotModels))
	for i, m := range lotModels {
		m := m
		lots[i] = m.ToEntity()
	}
	return lots, nil
}

// Update saves changes to a lot.
func (r *lotRepository) Update(ctx context.Context, lot *entity.Lot) error {
	result := r.db.WithContext(ctx).Save(model.LotFromEntity(lot))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// lotCostEventRepository implements the adapter.LotCostEventRepository interface.
type lotCostEventRepository struct {
	db *gorm.DB
}

// NewLotCostEventRepository creates a new lot cost event repository instance.
func NewLotCostEventRepository(db *gorm.DB) adapter.LotCostEventRepository {
	return &lotCostEventRepository{
		db: db,
	}
}

// CreateBatch appends cost events.
func (r *lotCostEventRepository) CreateBatch(ctx context.Context, events []*entity.LotCostEvent) error {
	if len(events) == 0 {
		return nil
	}
	models := make([]*model.LotCostEventModel, len(events))
	for i, e := range events {
		models[i] = model.LotCostEventFromEntity(e)
	}
	return r.db.WithContext(ctx).CreateInBatches(models, 200).Error
}

// TotalsByLot sums the events of one lot per bucket.
func (r *lotCostEventRepository) TotalsByLot(ctx context.Context, lotID uuid.UUID) (entity.LotCostTotals, error) {
	totals, err := r.TotalsByLots(ctx, []uuid.UUID{lotID})
	if err != nil {
		return entity.LotCostTotals{}, err
	}
	if t, ok := totals[lotID]; ok {
		return t, nil
	}
	return zeroTotals(), nil
}

// TotalsByLots sums the events of several lots per bucket. Lots without events are absent.
func (r *lotCostEventRepository) TotalsByLots(ctx context.Context, lotIDs []uuid.UUID) (map[uuid.UUID]entity.LotCostTotals, error) {
	out := make(map[uuid.UUID]entity.LotCostTotals, len(lotIDs))
	if len(lotIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		LotID  uuid.UUID       `gorm:"column:lot_id"`
		Bucket string          `gorm:"column:bucket"`
		Total  decimal.Decimal `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).
		Model(&model.LotCostEventModel{}).
		Select("lot_id, bucket, SUM(amount) AS total").
		Where("lot_id IN ?", lotIDs).
		Group("lot_id, bucket").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		totals, ok := out[row.LotID]
		if !ok {
			totals = zeroTotals()
		}
		totals.Add(entity.CostBucket(row.Bucket), row.Total)
		out[row.LotID] = totals
	}
	return out, nil
}

// DeleteBySourceOn removes the events of a source dated on one day.
func (r *lotCostEventRepository) DeleteBySourceOn(ctx context.Context, source entity.CostEventSource, date time.Time) error {
	return r.db.WithContext(ctx).
		Where("source = ? AND occurred_on = ?", string(source), date).
		Delete(&model.LotCostEventModel{}).Error
}

func zeroTotals() entity.LotCostTotals {
	return entity.LotCostTotals{
		Feed:           decimal.Zero,
		Health:         decimal.Zero,
		Labor:          decimal.Zero,
		Infrastructure: decimal.Zero,
		Freight:        decimal.Zero,
		Other:          decimal.Zero,
	}
}
