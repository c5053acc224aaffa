package allocation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/boi-gordo/backend/internal/application/adapter/adaptertest"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

func expectCode(t *testing.T, err error, code domainerror.AllocationErrorCode) {
	t.Helper()
	var allocErr *domainerror.AllocationError
	if !errors.As(err, &allocErr) {
		t.Fatalf("expected AllocationError %s, got %v", code, err)
	}
	if allocErr.Code != code {
		t.Fatalf("expected code %s, got %s", code, allocErr.Code)
	}
}

func TestAllocateToPenUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects placements over pen capacity", func(t *testing.T) {
		store := adaptertest.NewStore()
		pen := seedPen(t, store, "P-01", 100)
		first := seedLot(t, store, "A", 80, "24000", entity.LotStatusConfined)
		second := seedLot(t, store, "B", 30, "9000", entity.LotStatusReceived)
		uc := NewAllocateToPenUseCase(store, adaptertest.NewMemoryCache())

		_, err := uc.Execute(ctx, AllocateToPenInput{LotID: first.ID, PenID: pen.ID, Quantity: 80, Date: date(2)})
		must(t, err)

		_, err = uc.Execute(ctx, AllocateToPenInput{LotID: second.ID, PenID: pen.ID, Quantity: 30, Date: date(3)})
		expectCode(t, err, domainerror.ErrCodePenCapacityExceeded)

		occupied, _ := store.Repositories().Allocations.SumActiveByPen(ctx, pen.ID)
		if occupied != 80 {
			t.Errorf("expected occupancy to stay at 80, got %d", occupied)
		}
		lot, _ := store.Repositories().Lots.FindByID(ctx, second.ID)
		if lot.Status != entity.LotStatusReceived {
			t.Errorf("expected the rejected lot to stay received, got %s", lot.Status)
		}
	})

	t.Run("rejects placing more head than the lot holds", func(t *testing.T) {
		store := adaptertest.NewStore()
		penA := seedPen(t, store, "P-01", 100)
		penB := seedPen(t, store, "P-02", 100)
		lot := seedLot(t, store, "A", 50, "15000", entity.LotStatusConfined)
		uc := NewAllocateToPenUseCase(store, nil)

		_, err := uc.Execute(ctx, AllocateToPenInput{LotID: lot.ID, PenID: penA.ID, Quantity: 40, Date: date(2)})
		must(t, err)

		_, err = uc.Execute(ctx, AllocateToPenInput{LotID: lot.ID, PenID: penB.ID, Quantity: 20, Date: date(2)})
		expectCode(t, err, domainerror.ErrCodeLotOverAllocated)
	})

	t.Run("rejects placements into an inactive pen", func(t *testing.T) {
		store := adaptertest.NewStore()
		pen := seedPen(t, store, "P-01", 100)
		lot := seedLot(t, store, "A", 10, "3000", entity.LotStatusReceived)
		_, err := NewSetPenStatusUseCase(store, nil).Execute(ctx, SetPenStatusInput{PenID: pen.ID, Active: false})
		must(t, err)

		_, err = NewAllocateToPenUseCase(store, nil).Execute(ctx, AllocateToPenInput{LotID: lot.ID, PenID: pen.ID, Quantity: 10, Date: date(2)})
		expectCode(t, err, domainerror.ErrCodePenInactive)

		occupied, _ := store.Repositories().Allocations.SumActiveByPen(ctx, pen.ID)
		if occupied != 0 {
			t.Errorf("expected an empty pen, got %d", occupied)
		}
		stored, _ := store.Repositories().Lots.FindByID(ctx, lot.ID)
		if stored.Status != entity.LotStatusReceived {
			t.Errorf("expected the lot to stay received, got %s", stored.Status)
		}
	})

	t.Run("first placement confines a received lot", func(t *testing.T) {
		store := adaptertest.NewStore()
		pen := seedPen(t, store, "P-01", 100)
		lot := seedLot(t, store, "A", 60, "18000", entity.LotStatusReceived)

		out, err := NewAllocateToPenUseCase(store, nil).Execute(ctx, AllocateToPenInput{LotID: lot.ID, PenID: pen.ID, Quantity: 30, Date: date(5)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !out.LotStatusChanged {
			t.Error("expected the lot status to change")
		}
		if out.PercentageOfLot != "50.00" || out.PercentageOfPen != "30.00" {
			t.Errorf("expected 50.00%% of lot and 30.00%% of pen, got %s and %s", out.PercentageOfLot, out.PercentageOfPen)
		}
		stored, _ := store.Repositories().Lots.FindByID(ctx, lot.ID)
		if stored.Status != entity.LotStatusConfined || stored.ConfinedAt == nil || !stored.ConfinedAt.Equal(date(5)) {
			t.Errorf("expected a confined lot since %s, got %s since %v", date(5), stored.Status, stored.ConfinedAt)
		}
	})

	t.Run("input and state validation", func(t *testing.T) {
		store := adaptertest.NewStore()
		pen := seedPen(t, store, "P-01", 100)
		pending := seedLot(t, store, "A", 10, "3000", entity.LotStatusPending)
		uc := NewAllocateToPenUseCase(store, nil)

		_, err := uc.Execute(ctx, AllocateToPenInput{LotID: pending.ID, PenID: pen.ID, Quantity: 0, Date: date(1)})
		expectCode(t, err, domainerror.ErrCodeInvalidQuantity)

		_, err = uc.Execute(ctx, AllocateToPenInput{LotID: pending.ID, PenID: pen.ID, Quantity: 5, Date: date(1)})
		expectCode(t, err, domainerror.ErrCodeLotNotPlaceable)

		confined := seedLot(t, store, "B", 10, "3000", entity.LotStatusConfined)
		_, err = uc.Execute(ctx, AllocateToPenInput{LotID: confined.ID, PenID: entity.NewPen("ghost", 1).ID, Quantity: 5, Date: date(1)})
		expectCode(t, err, domainerror.ErrCodePenNotFound)
	})
}

func TestRemoveAllocationUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	store := adaptertest.NewStore()
	pen := seedPen(t, store, "P-01", 100)
	lot := seedLot(t, store, "A", 40, "12000", entity.LotStatusConfined)
	placed, err := NewAllocateToPenUseCase(store, nil).Execute(ctx, AllocateToPenInput{LotID: lot.ID, PenID: pen.ID, Quantity: 40, Date: date(2)})
	must(t, err)
	uc := NewRemoveAllocationUseCase(store, nil)

	t.Run("removal before entry is rejected", func(t *testing.T) {
		_, err := uc.Execute(ctx, RemoveAllocationInput{AllocationID: placed.Allocation.ID, Date: date(1)})
		expectCode(t, err, domainerror.ErrCodeInvalidAllocationDate)
	})

	t.Run("soft-closes the allocation", func(t *testing.T) {
		removed, err := uc.Execute(ctx, RemoveAllocationInput{AllocationID: placed.Allocation.ID, Date: date(20)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if removed.Status != entity.AllocationStatusRemoved || removed.RemovalDate == nil {
			t.Errorf("expected a removed allocation with a removal date, got %+v", removed)
		}
		if removed.Quantity != 40 {
			t.Errorf("expected the closed allocation to keep 40 head, got %d", removed.Quantity)
		}
		occupied, _ := store.Repositories().Allocations.SumActiveByPen(ctx, pen.ID)
		if occupied != 0 {
			t.Errorf("expected an empty pen, got %d", occupied)
		}
	})

	t.Run("removing twice fails", func(t *testing.T) {
		_, err := uc.Execute(ctx, RemoveAllocationInput{AllocationID: placed.Allocation.ID, Date: date(21)})
		expectCode(t, err, domainerror.ErrCodeAllocationInactive)
	})
}

func TestTransferAllocationUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, targetCapacity int) (*adaptertest.Store, *entity.Pen, *entity.Pen, *entity.PenAllocation) {
		store := adaptertest.NewStore()
		from := seedPen(t, store, "P-01", 100)
		to := seedPen(t, store, "P-02", targetCapacity)
		lot := seedLot(t, store, "A", 40, "12000", entity.LotStatusConfined)
		placed, err := NewAllocateToPenUseCase(store, nil).Execute(ctx, AllocateToPenInput{LotID: lot.ID, PenID: from.ID, Quantity: 40, Date: date(2)})
		must(t, err)
		return store, from, to, placed.Allocation
	}

	t.Run("partial transfer splits the allocation", func(t *testing.T) {
		store, from, to, allocation := setup(t, 100)

		out, err := NewTransferAllocationUseCase(store, nil).Execute(ctx, TransferAllocationInput{
			AllocationID: allocation.ID,
			ToPenID:      to.ID,
			Quantity:     15,
			Date:         date(9),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.Closed.IsActive() {
			t.Error("expected the source allocation to be closed")
		}
		if out.Remaining == nil || out.Remaining.Quantity != 25 || out.Remaining.PenID != from.ID {
			t.Errorf("expected 25 head left in the source pen, got %+v", out.Remaining)
		}
		if out.Created.Allocation.Quantity != 15 || out.Created.Allocation.PenID != to.ID {
			t.Errorf("expected 15 head in the target pen, got %+v", out.Created.Allocation)
		}

		repo := store.Repositories().Allocations
		fromOccupied, _ := repo.SumActiveByPen(ctx, from.ID)
		toOccupied, _ := repo.SumActiveByPen(ctx, to.ID)
		if fromOccupied != 25 || toOccupied != 15 {
			t.Errorf("expected 25/15, got %d/%d", fromOccupied, toOccupied)
		}
	})

	t.Run("zero quantity moves everything", func(t *testing.T) {
		store, _, to, allocation := setup(t, 100)

		out, err := NewTransferAllocationUseCase(store, nil).Execute(ctx, TransferAllocationInput{
			AllocationID: allocation.ID,
			ToPenID:      to.ID,
			Date:         date(9),
		})
		must(t, err)
		if out.Remaining != nil || out.Created.Allocation.Quantity != 40 {
			t.Errorf("expected a full move of 40 head, got %+v", out.Created.Allocation)
		}
	})

	t.Run("target capacity failure rolls back the close", func(t *testing.T) {
		store, from, to, allocation := setup(t, 10)

		_, err := NewTransferAllocationUseCase(store, nil).Execute(ctx, TransferAllocationInput{
			AllocationID: allocation.ID,
			ToPenID:      to.ID,
			Quantity:     20,
			Date:         date(9),
		})
		expectCode(t, err, domainerror.ErrCodePenCapacityExceeded)

		stored, _ := store.Repositories().Allocations.FindByID(ctx, allocation.ID)
		if !stored.IsActive() {
			t.Error("expected the source allocation to stay active")
		}
		occupied, _ := store.Repositories().Allocations.SumActiveByPen(ctx, from.ID)
		if occupied != 40 {
			t.Errorf("expected 40 head in the source pen, got %d", occupied)
		}
	})

	t.Run("inactive target pen is rejected", func(t *testing.T) {
		store, from, to, allocation := setup(t, 100)
		_, err := NewSetPenStatusUseCase(store, nil).Execute(ctx, SetPenStatusInput{PenID: to.ID, Active: false})
		must(t, err)

		_, err = NewTransferAllocationUseCase(store, nil).Execute(ctx, TransferAllocationInput{
			AllocationID: allocation.ID,
			ToPenID:      to.ID,
			Date:         date(9),
		})
		expectCode(t, err, domainerror.ErrCodePenInactive)

		occupied, _ := store.Repositories().Allocations.SumActiveByPen(ctx, from.ID)
		if occupied != 40 {
			t.Errorf("expected 40 head in the source pen, got %d", occupied)
		}
	})

	t.Run("same pen and oversized moves are rejected", func(t *testing.T) {
		store, from, to, allocation := setup(t, 100)
		uc := NewTransferAllocationUseCase(store, nil)

		_, err := uc.Execute(ctx, TransferAllocationInput{AllocationID: allocation.ID, ToPenID: from.ID, Date: date(9)})
		expectCode(t, err, domainerror.ErrCodeInvalidAllocationInput)

		_, err = uc.Execute(ctx, TransferAllocationInput{AllocationID: allocation.ID, ToPenID: to.ID, Quantity: 41, Date: date(9)})
		expectCode(t, err, domainerror.ErrCodeQuantityExceedsLot)
	})
}

func TestSetPenStatusUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivates and reactivates an empty pen", func(t *testing.T) {
		store := adaptertest.NewStore()
		pen := seedPen(t, store, "P-01", 50)
		uc := NewSetPenStatusUseCase(store, nil)

		got, err := uc.Execute(ctx, SetPenStatusInput{PenID: pen.ID, Active: false})
		must(t, err)
		if got.IsActive {
			t.Error("expected the pen to be inactive")
		}
		active, _ := store.Repositories().Pens.FindActive(ctx)
		if len(active) != 0 {
			t.Errorf("expected no active pens, got %d", len(active))
		}

		got, err = uc.Execute(ctx, SetPenStatusInput{PenID: pen.ID, Active: true})
		must(t, err)
		if !got.IsActive {
			t.Error("expected the pen to be active again")
		}
	})

	t.Run("an occupied pen stays active", func(t *testing.T) {
		store := adaptertest.NewStore()
		pen := seedPen(t, store, "P-01", 50)
		lot := seedLot(t, store, "A", 10, "3000", entity.LotStatusConfined)
		_, err := NewAllocateToPenUseCase(store, nil).Execute(ctx, AllocateToPenInput{LotID: lot.ID, PenID: pen.ID, Quantity: 10, Date: date(2)})
		must(t, err)

		_, err = NewSetPenStatusUseCase(store, nil).Execute(ctx, SetPenStatusInput{PenID: pen.ID, Active: false})
		expectCode(t, err, domainerror.ErrCodePenOccupied)

		stored, _ := store.Repositories().Pens.FindByID(ctx, pen.ID)
		if !stored.IsActive {
			t.Error("expected the pen to stay active")
		}
	})

	t.Run("unknown pen", func(t *testing.T) {
		store := adaptertest.NewStore()
		_, err := NewSetPenStatusUseCase(store, nil).Execute(ctx, SetPenStatusInput{PenID: uuid.New(), Active: false})
		expectCode(t, err, domainerror.ErrCodePenNotFound)
	})
}
