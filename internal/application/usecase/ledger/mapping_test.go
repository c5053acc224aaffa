package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/adapter/adaptertest"
	"github.com/boi-gordo/backend/internal/domain/entity"
)

func sameID(got, want *uuid.UUID) bool {
	if got == nil || want == nil {
		return got == want
	}
	return *got == *want
}

func TestMapping_Links(t *testing.T) {
	lotID := uuid.New()
	penID := uuid.New()

	t.Run("revenue carries its lot", func(t *testing.T) {
		r := entity.NewRevenue("Sale", decimal.NewFromInt(100), day(3), &lotID)
		r.MarkReceived(day(4))

		tx, err := revenueTransaction(r)
		must(t, err)
		if !sameID(tx.LotID, &lotID) {
			t.Errorf("expected lot %s, got %v", lotID, tx.LotID)
		}
		if tx.PenID != nil {
			t.Errorf("expected no pen, got %v", tx.PenID)
		}
	})

	t.Run("revenue without a lot stays unlinked", func(t *testing.T) {
		r := entity.NewRevenue("Manure", decimal.NewFromInt(100), day(3), nil)
		r.MarkReceived(day(4))

		tx, err := revenueTransaction(r)
		must(t, err)
		if tx.LotID != nil {
			t.Errorf("expected no lot, got %v", tx.LotID)
		}
	})

	t.Run("purchase links the purchased lot", func(t *testing.T) {
		purchase := day(2)
		lot := entity.NewLot("L-010", 10, decimal.NewFromInt(3000), decimal.NewFromInt(5000), &purchase)

		tx, err := purchaseTransaction(lot)
		must(t, err)
		if !sameID(tx.LotID, &lot.ID) {
			t.Errorf("expected lot %s, got %v", lot.ID, tx.LotID)
		}
	})

	t.Run("expense carries its lot", func(t *testing.T) {
		e := entity.NewExpense("Vaccines", entity.ExpenseCategoryVeterinary, decimal.NewFromInt(50), day(5), true, &lotID)
		e.MarkPaid(day(6))

		tx, err := expenseTransaction(e)
		must(t, err)
		if !sameID(tx.LotID, &lotID) {
			t.Errorf("expected lot %s, got %v", lotID, tx.LotID)
		}
	})

	t.Run("mortality carries lot and pen", func(t *testing.T) {
		m := entity.NewMortalityRecord(lotID, &penID, 1, day(7), "bloat")

		tx, err := mortalityTransaction(m)
		must(t, err)
		if !sameID(tx.LotID, &lotID) {
			t.Errorf("expected lot %s, got %v", lotID, tx.LotID)
		}
		if !sameID(tx.PenID, &penID) {
			t.Errorf("expected pen %s, got %v", penID, tx.PenID)
		}
	})
}

func TestListTransactionsUseCase_FilterByLot(t *testing.T) {
	ctx := context.Background()
	store := adaptertest.NewStore()
	repos := store.Repositories()

	lotID := uuid.New()
	linked := entity.NewTransaction(day(3), "Vaccines", decimal.NewFromInt(-50), entity.CategoryVeterinaryCosts, false, nil, nil).
		WithLinks(&lotID, nil)
	other := entity.NewTransaction(day(3), "Diesel", decimal.NewFromInt(-80), entity.CategoryOperationalCosts, false, nil, nil)
	must(t, repos.Ledger.Create(ctx, linked))
	must(t, repos.Ledger.Create(ctx, other))

	lot := lotID.String()
	out, err := NewListTransactionsUseCase(repos.Ledger).Execute(ctx, ListTransactionsInput{LotID: &lot})
	must(t, err)
	if out.Count != 1 {
		t.Fatalf("expected 1 transaction, got %d", out.Count)
	}
	if out.Transactions[0].ID != linked.ID {
		t.Errorf("expected transaction %s, got %s", linked.ID, out.Transactions[0].ID)
	}

	bad := "not-a-uuid"
	if _, err := NewListTransactionsUseCase(repos.Ledger).Execute(ctx, ListTransactionsInput{LotID: &bad}); err == nil {
		t.Error("expected error for malformed lot id, got nil")
	}
}
