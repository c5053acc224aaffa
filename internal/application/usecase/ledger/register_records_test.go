package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/adapter/adaptertest"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

func TestRegisterExpenseUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects categories outside the closed set", func(t *testing.T) {
		uc := NewRegisterExpenseUseCase(adaptertest.NewStore(), nil)

		_, err := uc.Execute(ctx, RegisterExpenseInput{
			Description: "Mystery",
			Category:    "ração",
			Amount:      decimal.NewFromInt(10),
			DueDate:     day(1),
		})

		var ledgerErr *domainerror.LedgerError
		if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeInvalidExpenseCategory {
			t.Fatalf("expected invalid category error, got %v", err)
		}
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		uc := NewRegisterExpenseUseCase(adaptertest.NewStore(), nil)

		_, err := uc.Execute(ctx, RegisterExpenseInput{
			Description: "Salt",
			Category:    "feed",
			Amount:      decimal.NewFromInt(-5),
			DueDate:     day(1),
		})
		if !errors.Is(err, domainerror.ErrInvalidExpenseAmount) {
			t.Fatalf("expected ErrInvalidExpenseAmount, got %v", err)
		}
	})

	t.Run("allows negative biological adjustments", func(t *testing.T) {
		uc := NewRegisterExpenseUseCase(adaptertest.NewStore(), nil)

		expense, err := uc.Execute(ctx, RegisterExpenseInput{
			Description: "Herd revaluation",
			Category:    "biological_adjustment",
			Amount:      decimal.NewFromInt(-1200),
			DueDate:     day(31),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !expense.TotalAmount.Equal(decimal.NewFromInt(-1200)) {
			t.Errorf("expected -1200, got %s", expense.TotalAmount)
		}
	})

	t.Run("charges a lot expense to the lot cost ledger", func(t *testing.T) {
		store := adaptertest.NewStore()
		lot := entity.NewLot("L-9", 10, decimal.NewFromInt(3000), decimal.NewFromInt(20000), nil)
		must(t, store.Repositories().Lots.Create(ctx, lot))
		paid := day(3)

		expense, err := NewRegisterExpenseUseCase(store, nil).Execute(ctx, RegisterExpenseInput{
			Description: "Freight to farm",
			Category:    "freight",
			Amount:      decimal.NewFromInt(1500),
			DueDate:     day(2),
			PaymentDate: &paid,
			ImpactsCash: true,
			LotID:       &lot.ID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !expense.IsPaid {
			t.Error("expected the expense to be paid")
		}

		totals, _ := store.Repositories().CostEvents.TotalsByLot(ctx, lot.ID)
		if !totals.Freight.Equal(decimal.NewFromInt(1500)) {
			t.Errorf("expected freight bucket 1500, got %s", totals.Freight)
		}
	})

	t.Run("unknown lot is a not found error and stores nothing", func(t *testing.T) {
		store := adaptertest.NewStore()
		missing := uuid.New()

		_, err := NewRegisterExpenseUseCase(store, nil).Execute(ctx, RegisterExpenseInput{
			Description: "Vaccines",
			Category:    "veterinary",
			Amount:      decimal.NewFromInt(90),
			DueDate:     day(2),
			LotID:       &missing,
		})

		var ledgerErr *domainerror.LedgerError
		if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeLedgerLotNotFound {
			t.Fatalf("expected lot not found error, got %v", err)
		}
		if len(store.Events()) != 0 {
			t.Errorf("expected no cost events, got %d", len(store.Events()))
		}
	})
}

func TestRegisterRevenueUseCase_Execute(t *testing.T) {
	store := adaptertest.NewStore()
	repos := store.Repositories()
	received := day(9)

	revenue, err := NewRegisterRevenueUseCase(repos.Revenues, repos.Lots, nil).Execute(context.Background(), RegisterRevenueInput{
		Description: "Sale to packer",
		Amount:      decimal.NewFromInt(42000),
		DueDate:     day(8),
		ReceiptDate: &received,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !revenue.IsReceived || !revenue.ReceiptDate.Equal(received) {
		t.Errorf("expected a received revenue, got %+v", revenue)
	}
}

func TestListTransactionsUseCase_Execute(t *testing.T) {
	store := adaptertest.NewStore()
	uc := NewListTransactionsUseCase(store.Repositories().Ledger)

	t.Run("invalid category", func(t *testing.T) {
		bad := "FOOD"
		_, err := uc.Execute(context.Background(), ListTransactionsInput{Category: &bad})

		var ledgerErr *domainerror.LedgerError
		if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeInvalidLedgerFilter {
			t.Fatalf("expected invalid filter error, got %v", err)
		}
	})

	t.Run("inverted range", func(t *testing.T) {
		start, end := day(10), day(1)
		_, err := uc.Execute(context.Background(), ListTransactionsInput{StartDate: &start, EndDate: &end})
		if !errors.Is(err, domainerror.ErrInvalidDateRange) {
			t.Fatalf("expected ErrInvalidDateRange, got %v", err)
		}
	})

	t.Run("filters by cash impact", func(t *testing.T) {
		ctx := context.Background()
		repos := store.Repositories()
		cash := day(4)
		class := entity.CashFlowOperating
		must(t, repos.Ledger.Create(ctx, entity.NewTransaction(cash, "feed", decimal.NewFromInt(-1), entity.CategoryFeedCosts, true, &cash, &class)))
		must(t, repos.Ledger.Create(ctx, entity.NewTransaction(cash, "death", decimal.NewFromInt(-2), entity.CategoryMortality, false, nil, nil)))

		nonCash := false
		out, err := uc.Execute(ctx, ListTransactionsInput{ImpactsCash: &nonCash})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Count != 1 || out.Transactions[0].Category != entity.CategoryMortality {
			t.Errorf("expected only the mortality transaction, got %+v", out.Transactions)
		}
	})
}
