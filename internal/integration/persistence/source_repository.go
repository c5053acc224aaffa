package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	"github.com/boi-gordo/backend/internal/integration/persistence/model"
)

// toEntities converts query results with the model's ToEntity method.
func toEntities[M any, E any](models []M, convert func(*M) *E) []*E {
	out := make([]*E, len(models))
	for i := range models {
		out[i] = convert(&models[i])
	}
	return out
}

// revenueRepository implements the adapter.RevenueRepository interface.
type revenueRepository struct {
	db *gorm.DB
}

// NewRevenueRepository creates a new revenue repository instance.
func NewRevenueRepository(db *gorm.DB) adapter.RevenueRepository {
	return &revenueRepository{db: db}
}

// Create stores a new revenue.
func (r *revenueRepository) Create(ctx context.Context, revenue *entity.Revenue) error {
	return r.db.WithContext(ctx).Create(model.RevenueFromEntity(revenue)).Error
}

// FindReceivedBetween retrieves received revenues whose receipt date is in [start, end].
func (r *revenueRepository) FindReceivedBetween(ctx context.Context, start, end time.Time) ([]*entity.Revenue, error) {
	var models []model.RevenueModel
	result := r.db.WithContext(ctx).
		Where("is_received = ?", true).
		Where("receipt_date BETWEEN ? AND ?", start, end).
		Order("receipt_date ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(models, (*model.RevenueModel).ToEntity), nil
}

// expenseRepository implements the adapter.ExpenseRepository interface.
type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository instance.
func NewExpenseRepository(db *gorm.DB) adapter.ExpenseRepository {
	return &expenseRepository{db: db}
}

// Create stores a new expense.
func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	return r.db.WithContext(ctx).Create(model.ExpenseFromEntity(expense)).Error
}

// FindPaidBetween retrieves paid expenses whose payment date is in [start, end].
func (r *expenseRepository) FindPaidBetween(ctx context.Context, start, end time.Time) ([]*entity.Expense, error) {
	var models []model.ExpenseModel
	result := r.db.WithContext(ctx).
		Where("is_paid = ?", true).
		Where("payment_date BETWEEN ? AND ?", start, end).
		Order("payment_date ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(models, (*model.ExpenseModel).ToEntity), nil
}

// mortalityRepository implements the adapter.MortalityRepository interface.
type mortalityRepository struct {
	db *gorm.DB
}

// NewMortalityRepository creates a new mortality record repository instance.
func NewMortalityRepository(db *gorm.DB) adapter.MortalityRepository {
	return &mortalityRepository{db: db}
}

// Create stores a new mortality record.
func (r *mortalityRepository) Create(ctx context.Context, record *entity.MortalityRecord) error {
	return r.db.WithContext(ctx).Create(model.MortalityRecordFromEntity(record)).Error
}

// Update saves changes to a mortality record.
func (r *mortalityRepository) Update(ctx context.Context, record *entity.MortalityRecord) error {
	return r.db.WithContext(ctx).Save(model.MortalityRecordFromEntity(record)).Error
}

// FindBetween retrieves records whose death date is in [start, end].
func (r *mortalityRepository) FindBetween(ctx context.Context, start, end time.Time) ([]*entity.MortalityRecord, error) {
	return r.find(r.db.WithContext(ctx).Where("death_date BETWEEN ? AND ?", start, end))
}

// FindByLots retrieves the records of the given lots.
func (r *mortalityRepository) FindByLots(ctx context.Context, lotIDs []uuid.UUID) ([]*entity.MortalityRecord, error) {
	if len(lotIDs) == 0 {
		return []*entity.MortalityRecord{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("lot_id IN ?", lotIDs))
}

func (r *mortalityRepository) find(query *gorm.DB) ([]*entity.MortalityRecord, error) {
	var models []model.MortalityRecordModel
	if err := query.Order("death_date ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toEntities(models, (*model.MortalityRecordModel).ToEntity), nil
}

// saleRepository implements the adapter.SaleRepository interface.
type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository instance.
func NewSaleRepository(db *gorm.DB) adapter.SaleRepository {
	return &saleRepository{db: db}
}

// Create stores a new sale.
func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Create(model.SaleFromEntity(sale)).Error
}

// FindByLots retrieves the sales of the given lots.
func (r *saleRepository) FindByLots(ctx context.Context, lotIDs []uuid.UUID) ([]*entity.Sale, error) {
	if len(lotIDs) == 0 {
		return []*entity.Sale{}, nil
	}
	var models []model.SaleModel
	result := r.db.WithContext(ctx).
		Where("lot_id IN ?", lotIDs).
		Order("sale_date ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(models, (*model.SaleModel).ToEntity), nil
}

// contributionRepository implements the adapter.ContributionRepository interface.
type contributionRepository struct {
	db *gorm.DB
}

// NewContributionRepository creates a new contribution repository instance.
func NewContributionRepository(db *gorm.DB) adapter.ContributionRepository {
	return &contributionRepository{db: db}
}

// Create stores a new contribution.
func (r *contributionRepository) Create(ctx context.Context, contribution *entity.Contribution) error {
	return r.db.WithContext(ctx).Create(model.ContributionFromEntity(contribution)).Error
}

// FindBetween retrieves contributions dated in [start, end].
func (r *contributionRepository) FindBetween(ctx context.Context, start, end time.Time) ([]*entity.Contribution, error) {
	var models []model.ContributionModel
	result := r.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", start, end).
		Order("date ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(models, (*model.ContributionModel).ToEntity), nil
}

// healthInterventionRepository implements the adapter.HealthInterventionRepository interface.
type healthInterventionRepository struct {
	db *gorm.DB
}

// NewHealthInterventionRepository creates a new health intervention repository instance.
func NewHealthInterventionRepository(db *gorm.DB) adapter.HealthInterventionRepository {
	return &healthInterventionRepository{db: db}
}

// Create stores a new intervention.
func (r *healthInterventionRepository) Create(ctx context.Context, intervention *entity.HealthIntervention) error {
	return r.db.WithContext(ctx).Create(model.HealthInterventionFromEntity(intervention)).Error
}

// FindBetween retrieves interventions applied in [start, end].
func (r *healthInterventionRepository) FindBetween(ctx context.Context, start, end time.Time) ([]*entity.HealthIntervention, error) {
	var models []model.HealthInterventionModel
	result := r.db.WithContext(ctx).
		Where("applied_on BETWEEN ? AND ?", start, end).
		Order("applied_on ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(models, (*model.HealthInterventionModel).ToEntity), nil
}
