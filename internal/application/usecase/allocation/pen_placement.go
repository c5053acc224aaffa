package allocation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
)

// AllocateToPenInput represents the input for placing head of a lot in a pen.
type AllocateToPenInput struct {
	LotID    uuid.UUID
	PenID    uuid.UUID
	Quantity int
	Date     time.Time
}

// PenAllocationOutput is an allocation with its derived percentages.
type PenAllocationOutput struct {
	Allocation       *entity.PenAllocation
	PercentageOfLot  string
	PercentageOfPen  string
	PenOccupied      int
	PenCapacity      int
	LotStatusChanged bool
}

// AllocateToPenUseCase places head of a lot in a pen.
type AllocateToPenUseCase struct {
	uow   adapter.UnitOfWork
	cache adapter.ReportCache
}

// NewAllocateToPenUseCase creates a new AllocateToPenUseCase instance.
func NewAllocateToPenUseCase(uow adapter.UnitOfWork, cache adapter.ReportCache) *AllocateToPenUseCase {
	return &AllocateToPenUseCase{uow: uow, cache: cache}
}

// Execute validates capacity and lot quantity and creates the allocation.
// A received lot becomes confined on its first placement.
func (uc *AllocateToPenUseCase) Execute(ctx context.Context, input AllocateToPenInput) (*PenAllocationOutput, error) {
	if input.Quantity <= 0 {
		return nil, invalidQuantity()
	}
	if input.Date.IsZero() {
		return nil, invalidDate()
	}
	date := valueobject.TruncateDay(input.Date)

	var output *PenAllocationOutput
	err := uc.uow.Within(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		var err error
		output, err = place(ctx, repos, input.LotID, input.PenID, input.Quantity, date)
		return err
	})
	if err != nil {
		return nil, toAllocationError(err, "failed to allocate lot to pen")
	}

	adapter.InvalidateReports(ctx, uc.cache)

	slog.Info("Lot allocated to pen",
		"lot_id", input.LotID,
		"pen_id", input.PenID,
		"quantity", input.Quantity,
		"pen_occupied", output.PenOccupied,
	)
	return output, nil
}

// place runs the placement checks and writes against repos, which must be bound to
// a unit of work. The pen row is locked so concurrent placements see each other.
func place(ctx context.Context, repos adapter.Repositories, lotID, penID uuid.UUID, quantity int, date time.Time) (*PenAllocationOutput, error) {
	lot, err := repos.Lots.FindByIDForUpdate(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot.Status != entity.LotStatusReceived && lot.Status != entity.LotStatusConfined {
		return nil, domainerror.NewAllocationError(
			domainerror.ErrCodeLotNotPlaceable,
			fmt.Sprintf("lot %s is %s, it must be received or confined", lot.Code, lot.Status),
			domainerror.ErrLotNotPlaceable,
		)
	}

	pen, err := repos.Pens.FindByIDForUpdate(ctx, penID)
	if err != nil {
		return nil, err
	}
	if !pen.IsActive {
		return nil, domainerror.NewAllocationError(
			domainerror.ErrCodePenInactive,
			fmt.Sprintf("pen %s is inactive", pen.Number),
			domainerror.ErrPenInactive,
		)
	}

	occupied, err := repos.Allocations.SumActiveByPen(ctx, pen.ID)
	if err != nil {
		return nil, err
	}
	if occupied+quantity > pen.Capacity {
		return nil, domainerror.NewAllocationError(
			domainerror.ErrCodePenCapacityExceeded,
			fmt.Sprintf("pen %s holds %d of %d head, %d more do not fit", pen.Number, occupied, pen.Capacity, quantity),
			domainerror.ErrPenCapacityExceeded,
		)
	}

	lotAllocations, err := repos.Allocations.FindActiveByLot(ctx, lot.ID)
	if err != nil {
		return nil, err
	}
	placed := 0
	for _, a := range lotAllocations {
		placed += a.Quantity
	}
	if placed+quantity > lot.CurrentQuantity {
		return nil, domainerror.NewAllocationError(
			domainerror.ErrCodeLotOverAllocated,
			fmt.Sprintf("lot %s has %d head and %d already placed", lot.Code, lot.CurrentQuantity, placed),
			domainerror.ErrLotOverAllocated,
		)
	}

	allocation := entity.NewPenAllocation(lot.ID, pen.ID, quantity, date)
	if err := repos.Allocations.Create(ctx, allocation); err != nil {
		return nil, err
	}

	changed := false
	if lot.Status == entity.LotStatusReceived {
		lot.Status = entity.LotStatusConfined
		lot.ConfinedAt = &date
		lot.UpdatedAt = time.Now().UTC()
		if err := repos.Lots.Update(ctx, lot); err != nil {
			return nil, err
		}
		changed = true
	}

	return &PenAllocationOutput{
		Allocation:       allocation,
		PercentageOfLot:  allocation.PercentageOfLot(lot.CurrentQuantity).StringFixed(2),
		PercentageOfPen:  allocation.PercentageOfPen(pen.Capacity).StringFixed(2),
		PenOccupied:      occupied + quantity,
		PenCapacity:      pen.Capacity,
		LotStatusChanged: changed,
	}, nil
}

// RemoveAllocationInput represents the input for removing an allocation.
type RemoveAllocationInput struct {
	AllocationID uuid.UUID
	Date         time.Time
}

// RemoveAllocationUseCase soft-closes an allocation.
type RemoveAllocationUseCase struct {
	uow   adapter.UnitOfWork
	cache adapter.ReportCache
}

// NewRemoveAllocationUseCase creates a new RemoveAllocationUseCase instance.
func NewRemoveAllocationUseCase(uow adapter.UnitOfWork, cache adapter.ReportCache) *RemoveAllocationUseCase {
	return &RemoveAllocationUseCase{uow: uow, cache: cache}
}

// Execute closes the allocation on input.Date.
func (uc *RemoveAllocationUseCase) Execute(ctx context.Context, input RemoveAllocationInput) (*entity.PenAllocation, error) {
	if input.Date.IsZero() {
		return nil, invalidDate()
	}
	date := valueobject.TruncateDay(input.Date)

	var allocation *entity.PenAllocation
	err := uc.uow.Within(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		var err error
		allocation, err = closeAllocation(ctx, repos, input.AllocationID, date)
		return err
	})
	if err != nil {
		return nil, toAllocationError(err, "failed to remove allocation")
	}

	adapter.InvalidateReports(ctx, uc.cache)
	slog.Info("Allocation removed", "allocation_id", allocation.ID, "pen_id", allocation.PenID)
	return allocation, nil
}

func closeAllocation(ctx context.Context, repos adapter.Repositories, id uuid.UUID, date time.Time) (*entity.PenAllocation, error) {
	allocation, err := repos.Allocations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allocation.IsActive() {
		return nil, domainerror.NewAllocationError(
			domainerror.ErrCodeAllocationInactive,
			"allocation was already removed",
			domainerror.ErrAllocationInactive,
		)
	}
	if date.Before(valueobject.TruncateDay(allocation.EntryDate)) {
		return nil, domainerror.NewAllocationError(
			domainerror.ErrCodeInvalidAllocationDate,
			"removal date must not be before the entry date",
			domainerror.ErrInvalidAllocationDate,
		)
	}

	allocation.Close(date)
	if err := repos.Allocations.Update(ctx, allocation); err != nil {
		return nil, err
	}
	return allocation, nil
}

// TransferAllocationInput represents the input for moving head between pens.
// A zero Quantity moves the whole allocation.
type TransferAllocationInput struct {
	AllocationID uuid.UUID
	ToPenID      uuid.UUID
	Quantity     int
	Date         time.Time
}

// TransferAllocationOutput holds both sides of a transfer.
type TransferAllocationOutput struct {
	Closed    *entity.PenAllocation
	Remaining *entity.PenAllocation
	Created   *PenAllocationOutput
}

// TransferAllocationUseCase moves head from one pen to another atomically.
type TransferAllocationUseCase struct {
	uow   adapter.UnitOfWork
	cache adapter.ReportCache
}

// NewTransferAllocationUseCase creates a new TransferAllocationUseCase instance.
func NewTransferAllocationUseCase(uow adapter.UnitOfWork, cache adapter.ReportCache) *TransferAllocationUseCase {
	return &TransferAllocationUseCase{uow: uow, cache: cache}
}

// Execute closes the source allocation and places the moved head in the target pen.
// A partial transfer leaves the rest in a new allocation of the source pen.
func (uc *TransferAllocationUseCase) Execute(ctx context.Context, input TransferAllocationInput) (*TransferAllocationOutput, error) {
	if input.Quantity < 0 {
		return nil, invalidQuantity()
	}
	if input.Date.IsZero() {
		return nil, invalidDate()
	}
	date := valueobject.TruncateDay(input.Date)

	output := &TransferAllocationOutput{}
	err := uc.uow.Within(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		source, err := repos.Allocations.FindByID(ctx, input.AllocationID)
		if err != nil {
			return err
		}
		if source.PenID == input.ToPenID {
			return domainerror.NewAllocationError(
				domainerror.ErrCodeInvalidAllocationInput,
				"target pen must differ from the current pen",
				nil,
			)
		}

		quantity := input.Quantity
		if quantity == 0 {
			quantity = source.Quantity
		}
		if quantity > source.Quantity {
			return domainerror.NewAllocationError(
				domainerror.ErrCodeQuantityExceedsLot,
				fmt.Sprintf("allocation holds %d head, cannot move %d", source.Quantity, quantity),
				domainerror.ErrQuantityExceedsLot,
			)
		}

		output.Closed, err = closeAllocation(ctx, repos, source.ID, date)
		if err != nil {
			return err
		}

		if rest := source.Quantity - quantity; rest > 0 {
			output.Remaining = entity.NewPenAllocation(source.LotID, source.PenID, rest, date)
			if err := repos.Allocations.Create(ctx, output.Remaining); err != nil {
				return err
			}
		}

		output.Created, err = place(ctx, repos, source.LotID, input.ToPenID, quantity, date)
		return err
	})
	if err != nil {
		return nil, toAllocationError(err, "failed to transfer allocation")
	}

	adapter.InvalidateReports(ctx, uc.cache)
	slog.Info("Allocation transferred",
		"allocation_id", input.AllocationID,
		"to_pen_id", input.ToPenID,
		"quantity", output.Created.Allocation.Quantity,
	)
	return output, nil
}
