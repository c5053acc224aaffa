package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/application/adapter/adaptertest"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

func june(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func expectReportCode(t *testing.T, err error, code domainerror.ReportErrorCode) {
	t.Helper()
	var reportErr *domainerror.ReportError
	if !errors.As(err, &reportErr) {
		t.Fatalf("expected ReportError, got %v", err)
	}
	if reportErr.Code != code {
		t.Errorf("expected code %s, got %s", code, reportErr.Code)
	}
}

// seedCashMovements stores a 500 receipt on the 2nd, a 200 cash payment and a
// 999 non-cash payment on the 3rd and a 300 contribution on the 4th.
func seedCashMovements(t *testing.T, store *adaptertest.Store) {
	t.Helper()
	ctx := context.Background()
	repos := store.Repositories()

	received := entity.NewRevenue("Lot L-01 - 1 head", dec("500"), june(2), nil)
	received.MarkReceived(june(2).Add(15 * time.Hour))
	must(t, repos.Revenues.Create(ctx, received))

	pending := entity.NewRevenue("Lot L-02 - 3 head", dec("7000"), june(3), nil)
	must(t, repos.Revenues.Create(ctx, pending))

	cash := entity.NewExpense("Mineral salt", entity.ExpenseCategoryFeed, dec("200"), june(3), true, nil)
	cash.MarkPaid(june(3))
	must(t, repos.Expenses.Create(ctx, cash))

	depreciation := entity.NewExpense("Tractor depreciation", entity.ExpenseCategoryDepreciation, dec("999"), june(3), false, nil)
	depreciation.MarkPaid(june(3))
	must(t, repos.Expenses.Create(ctx, depreciation))

	must(t, repos.Contributions.Create(ctx, entity.NewContribution("Partner A", dec("300"), june(4))))
}

func newCalendar(store *adaptertest.Store, cache adapter.ReportCache) *CashFlowCalendarUseCase {
	repos := store.Repositories()
	return NewCashFlowCalendarUseCase(repos.Revenues, repos.Expenses, repos.Contributions, cache)
}

func TestCashFlowCalendarUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("fills every day and carries the running balance", func(t *testing.T) {
		store := adaptertest.NewStore()
		seedCashMovements(t, store)

		out, err := newCalendar(store, nil).Execute(ctx, CashFlowCalendarInput{
			StartDate:      june(1),
			EndDate:        june(5),
			OpeningBalance: dec("1000"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(out.Days) != 5 {
			t.Fatalf("expected 5 days, got %d", len(out.Days))
		}

		expected := []struct {
			date     string
			inflows  string
			outflows string
			balance  string
		}{
			{"2024-06-01", "0", "0", "1000"},
			{"2024-06-02", "500", "0", "1500"},
			{"2024-06-03", "0", "200", "1300"},
			{"2024-06-04", "300", "0", "1600"},
			{"2024-06-05", "0", "0", "1600"},
		}
		for i, e := range expected {
			day := out.Days[i]
			if day.Date != e.date {
				t.Errorf("expected day %d to be %s, got %s", i, e.date, day.Date)
			}
			if !day.Inflows.Equal(dec(e.inflows)) {
				t.Errorf("expected inflows %s on %s, got %s", e.inflows, e.date, day.Inflows)
			}
			if !day.Outflows.Equal(dec(e.outflows)) {
				t.Errorf("expected outflows %s on %s, got %s", e.outflows, e.date, day.Outflows)
			}
			if !day.Balance.Equal(dec(e.balance)) {
				t.Errorf("expected balance %s on %s, got %s", e.balance, e.date, day.Balance)
			}
		}

		if out.Days[2].Payments != 1 {
			t.Errorf("expected the non-cash expense to be left out, got %d payments", out.Days[2].Payments)
		}
		if out.Days[3].Contributions != 1 {
			t.Errorf("expected 1 contribution on the 4th, got %d", out.Days[3].Contributions)
		}
		if !out.TotalInflows.Equal(dec("800")) {
			t.Errorf("expected total inflows 800, got %s", out.TotalInflows)
		}
		if !out.TotalOutflows.Equal(dec("200")) {
			t.Errorf("expected total outflows 200, got %s", out.TotalOutflows)
		}
		if !out.ClosingBalance.Equal(dec("1600")) {
			t.Errorf("expected closing balance 1600, got %s", out.ClosingBalance)
		}
	})

	t.Run("empty range keeps the opening balance", func(t *testing.T) {
		store := adaptertest.NewStore()

		out, err := newCalendar(store, nil).Execute(ctx, CashFlowCalendarInput{StartDate: june(10), EndDate: june(10)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Days) != 1 {
			t.Fatalf("expected 1 day, got %d", len(out.Days))
		}
		if !out.Days[0].NetFlow.IsZero() || !out.ClosingBalance.IsZero() {
			t.Errorf("expected zero flow and balance, got %s and %s", out.Days[0].NetFlow, out.ClosingBalance)
		}
	})

	t.Run("validates the range", func(t *testing.T) {
		store := adaptertest.NewStore()
		uc := newCalendar(store, nil)

		tests := []struct {
			name  string
			input CashFlowCalendarInput
			code  domainerror.ReportErrorCode
		}{
			{"missing start", CashFlowCalendarInput{EndDate: june(5)}, domainerror.ErrCodeMissingStartDate},
			{"missing end", CashFlowCalendarInput{StartDate: june(5)}, domainerror.ErrCodeMissingEndDate},
			{"end before start", CashFlowCalendarInput{StartDate: june(5), EndDate: june(4)}, domainerror.ErrCodeInvalidDateRange},
			{
				"more than 366 days",
				CashFlowCalendarInput{StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
				domainerror.ErrCodeDateRangeTooLong,
			},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				_, err := uc.Execute(ctx, tt.input)
				expectReportCode(t, err, tt.code)
			})
		}
	})

	t.Run("accepts a full leap year", func(t *testing.T) {
		store := adaptertest.NewStore()

		out, err := newCalendar(store, nil).Execute(ctx, CashFlowCalendarInput{
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Days) != 366 {
			t.Errorf("expected 366 days, got %d", len(out.Days))
		}
	})

	t.Run("serves repeated requests from the cache until invalidated", func(t *testing.T) {
		store := adaptertest.NewStore()
		seedCashMovements(t, store)
		cache := adaptertest.NewMemoryCache()
		uc := newCalendar(store, cache)
		input := CashFlowCalendarInput{StartDate: june(1), EndDate: june(5)}

		first, err := uc.Execute(ctx, input)
		must(t, err)

		must(t, store.Repositories().Contributions.Create(ctx, entity.NewContribution("Partner B", dec("50"), june(5))))

		second, err := uc.Execute(ctx, input)
		must(t, err)
		if cache.Hits != 1 {
			t.Errorf("expected 1 cache hit, got %d", cache.Hits)
		}
		if !second.ClosingBalance.Equal(first.ClosingBalance) {
			t.Errorf("expected cached closing balance %s, got %s", first.ClosingBalance, second.ClosingBalance)
		}

		adapter.InvalidateReports(ctx, cache)

		third, err := uc.Execute(ctx, input)
		must(t, err)
		if !third.ClosingBalance.Equal(dec("650")) {
			t.Errorf("expected closing balance 650 after invalidation, got %s", third.ClosingBalance)
		}
	})

	t.Run("store failure is internal", func(t *testing.T) {
		store := adaptertest.NewStore()
		store.Fail("Revenues.Find", errors.New("connection reset"))

		_, err := newCalendar(store, nil).Execute(ctx, CashFlowCalendarInput{StartDate: june(1), EndDate: june(2)})
		expectReportCode(t, err, domainerror.ErrCodeReportInternalError)
	})
}
