// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/boi-gordo/backend/config"
	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/application/usecase/allocation"
	"github.com/boi-gordo/backend/internal/application/usecase/ledger"
	"github.com/boi-gordo/backend/internal/application/usecase/reconciliation"
	"github.com/boi-gordo/backend/internal/application/usecase/report"
	"github.com/boi-gordo/backend/internal/domain/entity"
	"github.com/boi-gordo/backend/internal/infra/scheduler"
	"github.com/boi-gordo/backend/internal/infra/server/router"
	"github.com/boi-gordo/backend/internal/integration/email"
	"github.com/boi-gordo/backend/internal/integration/email/templates"
	"github.com/boi-gordo/backend/internal/integration/entrypoint/controller"
	"github.com/boi-gordo/backend/internal/integration/entrypoint/middleware"
	"github.com/boi-gordo/backend/internal/integration/persistence"
)

// UseCases groups the application use cases shared by the API and the CLI.
type UseCases struct {
	IngestMonth      *ledger.IngestMonthUseCase
	ListTransactions *ledger.ListTransactionsUseCase
	RegisterExpense  *ledger.RegisterExpenseUseCase
	RegisterRevenue  *ledger.RegisterRevenueUseCase
	RegisterContrib  *ledger.RegisterContributionUseCase

	ReconcilePeriod *reconciliation.ReconcilePeriodUseCase
	GetAnalysis     *reconciliation.GetAnalysisUseCase
	ListAnalyses    *reconciliation.ListAnalysesByYearUseCase

	AllocateDailyCosts *allocation.AllocateDailyCostsUseCase
	GetDailyAllocation *allocation.GetDailyAllocationsUseCase
	RegisterLot        *allocation.RegisterLotUseCase
	RegisterPen        *allocation.RegisterPenUseCase
	SetPenStatus       *allocation.SetPenStatusUseCase
	ChangeLotStatus    *allocation.ChangeLotStatusUseCase
	RecordMortality    *allocation.RecordMortalityUseCase
	RecordSale         *allocation.RecordSaleUseCase
	RecordWeighing     *allocation.RecordWeighingUseCase
	RegisterHealth     *allocation.RegisterHealthInterventionUseCase
	AllocateToPen      *allocation.AllocateToPenUseCase
	RemoveAllocation   *allocation.RemoveAllocationUseCase
	TransferAllocation *allocation.TransferAllocationUseCase
	SetFeedPrice       *allocation.SetFeedPriceUseCase

	CashFlowCalendar *report.CashFlowCalendarUseCase
	LotProfitability *report.LotProfitabilityUseCase
	PenOccupancy     *report.PenOccupancyUseCase
}

// Injector holds all application dependencies.
type Injector struct {
	Config    *config.Config
	DB        *gorm.DB
	UseCases  UseCases
	Alerts    *email.Service
	Worker    *email.Worker
	Scheduler *scheduler.Scheduler
	Limiter   *middleware.RateLimiter
	Router    *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// A nil cache disables report caching.
func NewInjector(cfg *config.Config, db *gorm.DB, cache adapter.ReportCache) (*Injector, error) {
	repos := persistence.NewRepositories(db)
	uow := persistence.NewUnitOfWork(db)
	feedPrices := persistence.NewFeedPriceRepository(db, cfg.Allocation.FeedPricePerKg)
	outbox := persistence.NewAlertOutboxRepository(db)

	alerts := email.NewService(outbox, cfg.Notification.AlertRecipient)

	useCases := newUseCases(cfg, repos, uow, feedPrices, cache, alerts)

	worker, err := newWorker(cfg, outbox)
	if err != nil {
		return nil, err
	}

	var cleaner scheduler.SentCleaner
	if worker != nil {
		cleaner = worker
	}
	jobs := scheduler.NewScheduler(cfg.Scheduler, useCases.AllocateDailyCosts, useCases.ReconcilePeriod, cleaner, alerts)

	healthController := controller.NewHealthController(
		controller.HealthProbe{
			Name:     "database",
			Required: true,
			Check: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		},
		controller.HealthProbe{
			Name: "report_cache",
			Check: func(ctx context.Context) error {
				var probe struct{}
				_, err := cache.Get(ctx, adapter.ReportCachePrefix+"health", &probe)
				return err
			},
		},
	)

	ledgerController := controller.NewLedgerController(
		useCases.IngestMonth,
		useCases.ListTransactions,
		useCases.RegisterExpense,
		useCases.RegisterRevenue,
		useCases.RegisterContrib,
	)

	reconciliationController := controller.NewReconciliationController(
		useCases.ReconcilePeriod,
		useCases.GetAnalysis,
		useCases.ListAnalyses,
	)

	allocationController := controller.NewAllocationController(
		useCases.AllocateDailyCosts,
		useCases.GetDailyAllocation,
		useCases.AllocateToPen,
		useCases.RemoveAllocation,
		useCases.TransferAllocation,
		useCases.SetFeedPrice,
	)

	lotController := controller.NewLotController(
		useCases.RegisterLot,
		useCases.RegisterPen,
		useCases.SetPenStatus,
		useCases.ChangeLotStatus,
		useCases.RecordMortality,
		useCases.RecordSale,
		useCases.RecordWeighing,
		useCases.RegisterHealth,
	)

	reportController := controller.NewReportController(
		useCases.CashFlowCalendar,
		useCases.LotProfitability,
		useCases.PenOccupancy,
	)

	reconcileRateLimiter := middleware.NewReconcileRateLimiter(cfg.RateLimit)

	r := router.NewRouter(
		healthController,
		ledgerController,
		reconciliationController,
		allocationController,
		lotController,
		reportController,
		reconcileRateLimiter,
		cfg.CORS.AllowedOrigins,
	)

	return &Injector{
		Config:    cfg,
		DB:        db,
		UseCases:  useCases,
		Alerts:    alerts,
		Worker:    worker,
		Scheduler: jobs,
		Limiter:   reconcileRateLimiter,
		Router:    r,
	}, nil
}

func newUseCases(
	cfg *config.Config,
	repos adapter.Repositories,
	uow adapter.UnitOfWork,
	feedPrices adapter.FeedPriceRepository,
	cache adapter.ReportCache,
	alerts adapter.AlertService,
) UseCases {
	defaultRates := entity.DailyRates{
		Labor:          cfg.Allocation.DailyLaborCost,
		Infrastructure: cfg.Allocation.DailyInfrastructureCost,
		Veterinary:     cfg.Allocation.DailyVeterinaryCost,
		FeedPricePerKg: cfg.Allocation.FeedPricePerKg,
	}

	ingest := ledger.NewIngestMonthUseCase(repos.Revenues, repos.Expenses, repos.Mortalities, repos.Lots, repos.CostEvents, uow)

	return UseCases{
		IngestMonth:      ingest,
		ListTransactions: ledger.NewListTransactionsUseCase(repos.Ledger),
		RegisterExpense:  ledger.NewRegisterExpenseUseCase(uow, cache),
		RegisterRevenue:  ledger.NewRegisterRevenueUseCase(repos.Revenues, repos.Lots, cache),
		RegisterContrib:  ledger.NewRegisterContributionUseCase(repos.Contributions, cache),

		ReconcilePeriod: reconciliation.NewReconcilePeriodUseCase(ingest, repos.Ledger, repos.PeriodAnalyses, alerts, cache),
		GetAnalysis:     reconciliation.NewGetAnalysisUseCase(repos.Ledger, repos.PeriodAnalyses),
		ListAnalyses:    reconciliation.NewListAnalysesByYearUseCase(repos.PeriodAnalyses),

		AllocateDailyCosts: allocation.NewAllocateDailyCostsUseCase(
			repos.Lots, repos.HealthInterventions, repos.DailyAllocations, feedPrices, uow, cache, defaultRates,
		),
		GetDailyAllocation: allocation.NewGetDailyAllocationsUseCase(repos.DailyAllocations),
		RegisterLot:        allocation.NewRegisterLotUseCase(repos.Lots, cache),
		RegisterPen:        allocation.NewRegisterPenUseCase(repos.Pens, cache),
		SetPenStatus:       allocation.NewSetPenStatusUseCase(uow, cache),
		ChangeLotStatus:    allocation.NewChangeLotStatusUseCase(uow, cache),
		RecordMortality:    allocation.NewRecordMortalityUseCase(uow, cache),
		RecordSale:         allocation.NewRecordSaleUseCase(uow, cache),
		RecordWeighing:     allocation.NewRecordWeighingUseCase(uow, cache),
		RegisterHealth:     allocation.NewRegisterHealthInterventionUseCase(repos.Lots, repos.HealthInterventions),
		AllocateToPen:      allocation.NewAllocateToPenUseCase(uow, cache),
		RemoveAllocation:   allocation.NewRemoveAllocationUseCase(uow, cache),
		TransferAllocation: allocation.NewTransferAllocationUseCase(uow, cache),
		SetFeedPrice:       allocation.NewSetFeedPriceUseCase(feedPrices),

		CashFlowCalendar: report.NewCashFlowCalendarUseCase(repos.Revenues, repos.Expenses, repos.Contributions, cache),
		LotProfitability: report.NewLotProfitabilityUseCase(repos.Lots, repos.CostEvents, repos.Sales, repos.Mortalities, cache),
		PenOccupancy:     report.NewPenOccupancyUseCase(repos.Pens, repos.Allocations, repos.Lots, cache),
	}
}

// newWorker builds the alert delivery worker. It returns nil when delivery is disabled
// or no Resend key is configured; alerts then stay queued.
func newWorker(cfg *config.Config, outbox adapter.AlertOutbox) (*email.Worker, error) {
	if !cfg.Notification.WorkerEnabled {
		return nil, nil
	}
	if cfg.Notification.ResendAPIKey == "" {
		slog.Warn("RESEND_API_KEY not set, alerts will stay queued")
		return nil, nil
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, err
	}

	sender := email.NewResendClient(cfg.Notification.ResendAPIKey, cfg.Notification.FromName, cfg.Notification.FromEmail)
	if cfg.Notification.ResendBaseURL != "" {
		if err := sender.WithBaseURL(cfg.Notification.ResendBaseURL); err != nil {
			return nil, err
		}
	}
	workerConfig := email.DefaultWorkerConfig()
	if cfg.Notification.PollInterval > 0 {
		workerConfig.PollInterval = cfg.Notification.PollInterval
	}
	if cfg.Notification.BatchSize > 0 {
		workerConfig.BatchSize = cfg.Notification.BatchSize
	}
	if cfg.Notification.Concurrency > 0 {
		workerConfig.Concurrency = cfg.Notification.Concurrency
	}

	return email.NewWorker(outbox, sender, renderer, workerConfig), nil
}
