package reconciliation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/adapter/adaptertest"
	"github.com/boi-gordo/backend/internal/application/usecase/ledger"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

func may(d int) time.Time {
	return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// seedMay stores 100000 of received sales, 30000 of paid feed and one dead head
// of a lot bought in April for 20000 (2000 per head).
func seedMay(t *testing.T, store *adaptertest.Store) {
	t.Helper()
	ctx := context.Background()
	repos := store.Repositories()

	purchased := time.Date(2024, time.April, 20, 0, 0, 0, 0, time.UTC)
	lot := entity.NewLot("L-01", 10, decimal.NewFromInt(3000), decimal.NewFromInt(20000), &purchased)
	lot.Status = entity.LotStatusConfined
	must(t, repos.Lots.Create(ctx, lot))

	revenue := entity.NewRevenue("Packer sale", decimal.NewFromInt(100000), may(10), nil)
	revenue.MarkReceived(may(10))
	must(t, repos.Revenues.Create(ctx, revenue))

	expense := entity.NewExpense("Corn silage", entity.ExpenseCategoryFeed, decimal.NewFromInt(30000), may(5), true, nil)
	expense.MarkPaid(may(5))
	must(t, repos.Expenses.Create(ctx, expense))

	must(t, repos.Mortalities.Create(ctx, entity.NewMortalityRecord(lot.ID, nil, 1, may(18), "bloat")))
}

func newReconciler(store *adaptertest.Store, alerts *adaptertest.AlertRecorder, cache *adaptertest.MemoryCache) *ReconcilePeriodUseCase {
	repos := store.Repositories()
	ingest := ledger.NewIngestMonthUseCase(repos.Revenues, repos.Expenses, repos.Mortalities, repos.Lots, repos.CostEvents, store)
	return NewReconcilePeriodUseCase(ingest, repos.Ledger, repos.PeriodAnalyses, alerts, cache)
}

func TestReconcilePeriodUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("reconciles accrual and cash results of the month", func(t *testing.T) {
		store := adaptertest.NewStore()
		seedMay(t, store)
		alerts := &adaptertest.AlertRecorder{}

		out, err := newReconciler(store, alerts, adaptertest.NewMemoryCache()).Execute(ctx, ReconcilePeriodInput{Month: "2024-05"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		a := out.Analysis
		checks := []struct {
			name string
			got  decimal.Decimal
			want int64
		}{
			{"total revenue", a.TotalRevenue, 100000},
			{"total expenses", a.TotalExpenses, 32000},
			{"net income", a.NetIncome, 68000},
			{"cash receipts", a.CashReceipts, 100000},
			{"cash payments", a.CashPayments, 30000},
			{"net cash flow", a.NetCashFlow, 70000},
			{"non-cash items", a.NonCashItems, 2000},
			{"mortality loss", a.MortalityLoss, 2000},
			{"reconciliation difference", a.ReconciliationDifference, -2000},
		}
		for _, c := range checks {
			if !c.got.Equal(decimal.NewFromInt(c.want)) {
				t.Errorf("expected %s %d, got %s", c.name, c.want, c.got)
			}
		}

		if a.HasWarnings() {
			t.Errorf("expected no warnings, got %v", a.Warnings)
		}
		if len(alerts.ReconciliationWarnings) != 0 {
			t.Errorf("expected no alerts, got %d", len(alerts.ReconciliationWarnings))
		}
		if out.Ingestion.Created != 3 {
			t.Errorf("expected 3 ledger transactions created, got %d", out.Ingestion.Created)
		}
		if !out.CashFlow.Operating.Net.Equal(decimal.NewFromInt(70000)) {
			t.Errorf("expected operating net 70000, got %s", out.CashFlow.Operating.Net)
		}
	})

	t.Run("rerun updates the same analysis", func(t *testing.T) {
		store := adaptertest.NewStore()
		seedMay(t, store)
		uc := newReconciler(store, &adaptertest.AlertRecorder{}, adaptertest.NewMemoryCache())

		first, err := uc.Execute(ctx, ReconcilePeriodInput{Month: "2024-05"})
		must(t, err)
		second, err := uc.Execute(ctx, ReconcilePeriodInput{Month: "2024-05"})
		must(t, err)

		if first.Analysis.ID != second.Analysis.ID {
			t.Errorf("expected analysis %s to be reused, got %s", first.Analysis.ID, second.Analysis.ID)
		}
		if second.Ingestion.Created != 0 || second.Ingestion.Updated != 3 {
			t.Errorf("expected 0 created / 3 updated, got %d / %d", second.Ingestion.Created, second.Ingestion.Updated)
		}
		if !second.Analysis.NetIncome.Equal(first.Analysis.NetIncome) {
			t.Errorf("expected net income %s, got %s", first.Analysis.NetIncome, second.Analysis.NetIncome)
		}
	})

	t.Run("inconsistent ledger is stored with warnings and alerts", func(t *testing.T) {
		store := adaptertest.NewStore()
		seedMay(t, store)
		broken := entity.NewTransaction(may(20), "Manual cash entry", decimal.NewFromInt(-500), entity.CategoryOperationalCosts, true, nil, nil)
		must(t, store.Repositories().Ledger.Create(ctx, broken))
		alerts := &adaptertest.AlertRecorder{}

		out, err := newReconciler(store, alerts, adaptertest.NewMemoryCache()).Execute(ctx, ReconcilePeriodInput{Month: "2024-05"})
		if err != nil {
			t.Fatalf("expected warnings rather than an error, got %v", err)
		}

		if !out.Analysis.HasWarnings() {
			t.Fatal("expected the analysis to carry warnings")
		}
		if len(alerts.ReconciliationWarnings) != 1 || alerts.ReconciliationWarnings[0].Month != "2024-05" {
			t.Errorf("expected one alert for 2024-05, got %+v", alerts.ReconciliationWarnings)
		}
		stored, _ := store.Repositories().PeriodAnalyses.FindByMonth(ctx, "2024-05")
		if len(stored.Warnings) != len(out.Analysis.Warnings) {
			t.Errorf("expected %d stored warnings, got %d", len(out.Analysis.Warnings), len(stored.Warnings))
		}
	})

	t.Run("invalidates cached reports", func(t *testing.T) {
		store := adaptertest.NewStore()
		cache := adaptertest.NewMemoryCache()
		must(t, cache.Set(ctx, "reports:cash-flow:2024-05-01:2024-05-31:0", []int{1}))

		_, err := newReconciler(store, &adaptertest.AlertRecorder{}, cache).Execute(ctx, ReconcilePeriodInput{Month: "2024-05"})
		must(t, err)

		if keys := cache.Keys(); len(keys) != 0 {
			t.Errorf("expected an empty cache, got %v", keys)
		}
	})

	t.Run("invalid month", func(t *testing.T) {
		_, err := newReconciler(adaptertest.NewStore(), nil, nil).Execute(ctx, ReconcilePeriodInput{Month: "2024-13"})

		var ledgerErr *domainerror.LedgerError
		if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeInvalidMonth {
			t.Fatalf("expected invalid month error, got %v", err)
		}
	})

	t.Run("store failure surfaces as internal error", func(t *testing.T) {
		store := adaptertest.NewStore()
		seedMay(t, store)
		store.Fail("PeriodAnalyses.Upsert", errors.New("connection reset"))

		_, err := newReconciler(store, &adaptertest.AlertRecorder{}, adaptertest.NewMemoryCache()).Execute(ctx, ReconcilePeriodInput{Month: "2024-05"})

		var ledgerErr *domainerror.LedgerError
		if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeLedgerInternalError {
			t.Fatalf("expected internal error, got %v", err)
		}
	})
}
