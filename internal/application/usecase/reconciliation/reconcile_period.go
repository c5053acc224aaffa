package reconciliation

import (
	"context"
	"log/slog"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/application/usecase/ledger"
)

// ReconcilePeriodInput represents the input for reconciling one month.
type ReconcilePeriodInput struct {
	Month string // YYYY-MM
}

// ReconcilePeriodOutput represents the result of a reconciliation run.
type ReconcilePeriodOutput struct {
	AnalysisOutput
	Ingestion *ledger.IngestMonthOutput
}

// ReconcilePeriodUseCase ingests a month into the ledger and stores its period analysis.
type ReconcilePeriodUseCase struct {
	ingest   *ledger.IngestMonthUseCase
	ledger   adapter.LedgerRepository
	analyses adapter.PeriodAnalysisRepository
	alerts   adapter.AlertService
	cache    adapter.ReportCache
}

// NewReconcilePeriodUseCase creates a new ReconcilePeriodUseCase instance.
func NewReconcilePeriodUseCase(
	ingest *ledger.IngestMonthUseCase,
	ledgerRepo adapter.LedgerRepository,
	analyses adapter.PeriodAnalysisRepository,
	alerts adapter.AlertService,
	cache adapter.ReportCache,
) *ReconcilePeriodUseCase {
	return &ReconcilePeriodUseCase{
		ingest:   ingest,
		ledger:   ledgerRepo,
		analyses: analyses,
		alerts:   alerts,
		cache:    cache,
	}
}

// Execute runs ingestion for the month, recomputes the analysis from the ledger and
// upserts it. Consistency failures are stored as warnings and raise an alert; they
// never fail the run.
func (uc *ReconcilePeriodUseCase) Execute(ctx context.Context, input ReconcilePeriodInput) (*ReconcilePeriodOutput, error) {
	month, err := parseMonth(input.Month)
	if err != nil {
		return nil, err
	}
	logger := slog.With("month", month.String())

	ingestion, err := uc.ingest.Execute(ctx, ledger.IngestMonthInput{Month: month})
	if err != nil {
		return nil, internalError("failed to ingest month", err)
	}

	result, err := compute(ctx, uc.ledger, month)
	if err != nil {
		return nil, err
	}

	analysis := result.Analysis
	if err := uc.analyses.Upsert(ctx, analysis); err != nil {
		return nil, internalError("failed to store period analysis", err)
	}

	adapter.InvalidateReports(ctx, uc.cache)

	if analysis.HasWarnings() {
		logger.Warn("Period analysis failed its consistency check",
			"reconciliation_difference", analysis.ReconciliationDifference.StringFixed(2),
			"non_cash_items", analysis.NonCashItems.StringFixed(2),
			"warnings", len(analysis.Warnings),
		)
		uc.alert(ctx, month.String(), analysis.ReconciliationDifference.StringFixed(2), analysis.NonCashItems.StringFixed(2), analysis.Warnings)
	}

	logger.Info("Period reconciled",
		"transactions", analysis.TransactionCount,
		"net_income", analysis.NetIncome.StringFixed(2),
		"net_cash_flow", analysis.NetCashFlow.StringFixed(2),
	)

	return &ReconcilePeriodOutput{
		AnalysisOutput: AnalysisOutput{
			Analysis:       analysis,
			CashFlow:       result.CashFlow,
			CategoryTotals: result.CategoryTotals,
		},
		Ingestion: ingestion,
	}, nil
}

func (uc *ReconcilePeriodUseCase) alert(ctx context.Context, month, difference, nonCash string, warnings []string) {
	if uc.alerts == nil {
		return
	}
	err := uc.alerts.QueueReconciliationWarning(ctx, adapter.ReconciliationWarningInput{
		Month:                    month,
		ReconciliationDifference: difference,
		NonCashItems:             nonCash,
		Warnings:                 warnings,
	})
	if err != nil {
		slog.Error("Failed to queue reconciliation warning", "month", month, "error", err)
	}
}
