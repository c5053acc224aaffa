package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/integration/persistence/model"
)

// periodAnalysisRepository implements the adapter.PeriodAnalysisRepository interface.
type periodAnalysisRepository struct {
	db *gorm.DB
}

// NewPeriodAnalysisRepository creates a new period analysis repository instance.
func NewPeriodAnalysisRepository(db *gorm.DB) adapter.PeriodAnalysisRepository {
	return &periodAnalysisRepository{
		db: db,
	}
}

// Upsert creates the analysis of its month or overwrites the stored one.
// The first ID and creation time of a month are kept.
func (r *periodAnalysisRepository) Upsert(ctx context.Context, analysis *entity.PeriodAnalysis) error {
	analysisModel := model.PeriodAnalysisFromEntity(analysis)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "reference_month"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"year",
				"total_revenue",
				"total_expenses",
				"net_income",
				"cash_receipts",
				"cash_payments",
				"net_cash_flow",
				"non_cash_items",
				"depreciation",
				"mortality_loss",
				"biological_adjustments",
				"other_non_cash",
				"reconciliation_difference",
				"transaction_count",
				"warnings",
				"updated_at",
			}),
		}).
		Create(analysisModel)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert period analysis %s: %w", analysis.ReferenceMonth, result.Error)
	}
	return nil
}

// FindByMonth retrieves the analysis of a month (YYYY-MM).
func (r *periodAnalysisRepository) FindByMonth(ctx context.Context, month string) (*entity.PeriodAnalysis, error) {
	var analysisModel model.PeriodAnalysisModel
	result := r.db.WithContext(ctx).Where("reference_month = ?", month).First(&analysisModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPeriodAnalysisNotFound
		}
		return nil, result.Error
	}
	return analysisModel.ToEntity(), nil
}

// FindByYear retrieves every analysis of a year ordered by month.
func (r *periodAnalysisRepository) FindByYear(ctx context.Context, year int) ([]*entity.PeriodAnalysis, error) {
	var analysisModels []model.PeriodAnalysisModel
	result := r.db.WithContext(ctx).
		Where("year = ?", year).
		Order("reference_month ASC").
		Find(&analysisModels)
	if result.Error != nil {
		return nil, result.Error
	}

	analyses := make([]*entity.PeriodAnalysis, len(analysisModels))
	for i, m := range analysisModels {
		m := m
		analyses[i] = m.ToEntity()
	}
	return analyses, nil
}
