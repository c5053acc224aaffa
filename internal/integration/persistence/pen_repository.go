package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/integration/persistence/model"
)

// penRepository implements the adapter.PenRepository interface.
type penRepository struct {
	db *gorm.DB
}

// NewPenRepository creates a new pen repository instance.
func NewPenRepository(db *gorm.DB) adapter.PenRepository {
	return &penRepository{
		db: db,
	}
}

// Create stores a new pen.
func (r *penRepository) Create(ctx context.Context, pen *entity.Pen) error {
	result := r.db.WithContext(ctx).Create(model.PenFromEntity(pen))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Update saves changes to a pen.
func (r *penRepository) Update(ctx context.Context, pen *entity.Pen) error {
	result := r.db.WithContext(ctx).Save(model.PenFromEntity(pen))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a pen by its ID.
func (r *penRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Pen, error) {
	return r.findOne(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves a pen and locks its row until the transaction ends,
// serializing placements into the same pen.
func (r *penRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Pen, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *penRepository) findOne(query *gorm.DB, id uuid.UUID) (*entity.Pen, error) {
	var penModel model.PenModel
	result := query.Where("id = ?", id).First(&penModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPenNotFound
		}
		return nil, result.Error
	}
	return penModel.ToEntity(), nil
}

// FindActive retrieves active pens ordered by number.
func (r *penRepository) FindActive(ctx context.Context) ([]*entity.Pen, error) {
	var penModels []model.PenModel
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("number ASC").
		Find(&penModels)
	if result.Error != nil {
		return nil, result.Error
	}

	pens := make([]*entity.Pen, len(penModels))
	for i, m := range penModels {
		m := m
		pens[i] = m.ToEntity()
	}
	return pens, nil
}

// penAllocationRepository implements the adapter.PenAllocationRepository interface.
type penAllocationRepository struct {
	db *gorm.DB
}

// NewPenAllocationRepository creates a new pen allocation repository instance.
func NewPenAllocationRepository(db *gorm.DB) adapter.PenAllocationRepository {
	return &penAllocationRepository{
		db: db,
	}
}

// Create stores a new allocation.
func (r *penAllocationRepository) Create(ctx context.Context, allocation *entity.PenAllocation) error {
	result := r.db.WithContext(ctx).Create(model.PenAllocationFromEntity(allocation))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Update saves changes to an allocation.
func (r *penAllocationRepository) Update(ctx context.Context, allocation *entity.PenAllocation) error {
	result := r.db.WithContext(ctx).Save(model.PenAllocationFromEntity(allocation))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves an allocation by its ID.
func (r *penAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PenAllocation, error) {
	var allocationModel model.PenAllocationModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&allocationModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAllocationNotFound
		}
		return nil, result.Error
	}
	return allocationModel.ToEntity(), nil
}

// FindActiveByLot retrieves the active allocations of a lot, oldest first.
func (r *penAllocationRepository) FindActiveByLot(ctx context.Context, lotID uuid.UUID) ([]*entity.PenAllocation, error) {
	return r.active(r.db.WithContext(ctx).Where("lot_id = ?", lotID))
}

// FindActiveByPen retrieves the active allocations of a pen, oldest first.
func (r *penAllocationRepository) FindActiveByPen(ctx context.Context, penID uuid.UUID) ([]*entity.PenAllocation, error) {
	return r.active(r.db.WithContext(ctx).Where("pen_id = ?", penID))
}

// FindActive retrieves every active allocation.
func (r *penAllocationRepository) FindActive(ctx context.Context) ([]*entity.PenAllocation, error) {
	return r.active(r.db.WithContext(ctx))
}

func (r *penAllocationRepository) active(query *gorm.DB) ([]*entity.PenAllocation, error) {
	var allocationModels []model.PenAllocationModel
	result := query.
		Where("status = ?", string(entity.AllocationStatusActive)).
		Order("entry_date ASC, created_at ASC").
		Find(&allocationModels)
	if result.Error != nil {
		return nil, result.Error
	}

	allocations := make([]*entity.PenAllocation, len(allocationModels))
	for i, m := range allocationModels {
		m := m
		allocations[i] = m.ToEntity()
	}
	return allocations, nil
}

// SumActiveByPen returns the head count currently placed in a pen.
func (r *penAllocationRepository) SumActiveByPen(ctx context.Context, penID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.PenAllocationModel{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("pen_id = ? AND status = ?", penID, string(entity.AllocationStatusActive)).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}
