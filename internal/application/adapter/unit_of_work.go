package adapter

import "context"

// Repositories groups the repositories bound to one unit of work.
type Repositories struct {
	Ledger              LedgerRepository
	PeriodAnalyses      PeriodAnalysisRepository
	Lots                LotRepository
	CostEvents          LotCostEventRepository
	Pens                PenRepository
	Allocations         PenAllocationRepository
	DailyAllocations    DailyAllocationRepository
	Revenues            RevenueRepository
	Expenses            ExpenseRepository
	Mortalities         MortalityRepository
	Sales               SaleRepository
	Contributions       ContributionRepository
	HealthInterventions HealthInterventionRepository
}

// UnitOfWork runs a function atomically.
// Every repository passed to fn shares the same store transaction; if fn returns an
// error nothing it wrote is kept.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
