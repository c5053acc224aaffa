package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/integration/persistence/model"
)

// NewRepositories binds every repository to the same database handle.
func NewRepositories(db *gorm.DB) adapter.Repositories {
	return adapter.Repositories{
		Ledger:              NewLedgerRepository(db),
		PeriodAnalyses:      NewPeriodAnalysisRepository(db),
		Lots:                NewLotRepository(db),
		CostEvents:          NewLotCostEventRepository(db),
		Pens:                NewPenRepository(db),
		Allocations:         NewPenAllocationRepository(db),
		DailyAllocations:    NewDailyAllocationRepository(db),
		Revenues:            NewRevenueRepository(db),
		Expenses:            NewExpenseRepository(db),
		Mortalities:         NewMortalityRepository(db),
		Sales:               NewSaleRepository(db),
		Contributions:       NewContributionRepository(db),
		HealthInterventions: NewHealthInterventionRepository(db),
	}
}

// unitOfWork implements the adapter.UnitOfWork interface on gorm transactions.
type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new unit of work instance.
func NewUnitOfWork(db *gorm.DB) adapter.UnitOfWork {
	return &unitOfWork{
		db: db,
	}
}

// Within runs fn inside one database transaction. The transaction is rolled back
// when fn returns an error or panics.
func (u *unitOfWork) Within(ctx context.Context, fn func(ctx context.Context, repos adapter.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}

// Models lists every table managed by the application, in creation order.
func Models() []any {
	return []any{
		&model.TransactionModel{},
		&model.PeriodAnalysisModel{},
		&model.LotModel{},
		&model.LotCostEventModel{},
		&model.PenModel{},
		&model.PenAllocationModel{},
		&model.DailyCostAllocationModel{},
		&model.FeedPriceModel{},
		&model.RevenueModel{},
		&model.ExpenseModel{},
		&model.MortalityRecordModel{},
		&model.SaleModel{},
		&model.ContributionModel{},
		&model.HealthInterventionModel{},
		&model.AlertModel{},
	}
}

// Migrate creates or updates the application tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
