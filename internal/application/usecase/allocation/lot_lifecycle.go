package allocation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
)

// RegisterLotInput represents the input for registering a purchased lot.
type RegisterLotInput struct {
	Code            string
	Quantity        int
	EntryWeight     decimal.Decimal
	AcquisitionCost decimal.Decimal
	PurchaseDate    *time.Time
}

// RegisterLotUseCase creates a lot in pending status.
type RegisterLotUseCase struct {
	lots  adapter.LotRepository
	cache adapter.ReportCache
}

// NewRegisterLotUseCase creates a new RegisterLotUseCase instance.
func NewRegisterLotUseCase(lots adapter.LotRepository, cache adapter.ReportCache) *RegisterLotUseCase {
	return &RegisterLotUseCase{lots: lots, cache: cache}
}

// Execute validates and stores the lot.
func (uc *RegisterLotUseCase) Execute(ctx context.Context, input RegisterLotInput) (*entity.Lot, error) {
	code := strings.TrimSpace(input.Code)
	switch {
	case code == "":
		return nil, invalidInput("code is required")
	case input.Quantity <= 0:
		return nil, invalidQuantity()
	case input.EntryWeight.IsNegative():
		return nil, invalidInput("entry weight must not be negative")
	case input.AcquisitionCost.IsNegative():
		return nil, invalidInput("acquisition cost must not be negative")
	}

	var purchaseDate *time.Time
	if input.PurchaseDate != nil {
		d := valueobject.TruncateDay(*input.PurchaseDate)
		purchaseDate = &d
	}

	lot := entity.NewLot(code, input.Quantity, input.EntryWeight, input.AcquisitionCost.Round(2), purchaseDate)
	if err := uc.lots.Create(ctx, lot); err != nil {
		return nil, toAllocationError(err, "failed to create lot")
	}

	adapter.InvalidateReports(ctx, uc.cache)
	slog.Info("Lot registered", "lot_id", lot.ID, "code", lot.Code, "quantity", lot.InitialQuantity)
	return lot, nil
}

// RegisterPenInput represents the input for registering a pen.
type RegisterPenInput struct {
	Number   string
	Capacity int
}

// RegisterPenUseCase creates an active pen.
type RegisterPenUseCase struct {
	pens  adapter.PenRepository
	cache adapter.ReportCache
}

// NewRegisterPenUseCase creates a new RegisterPenUseCase instance.
func NewRegisterPenUseCase(pens adapter.PenRepository, cache adapter.ReportCache) *RegisterPenUseCase {
	return &RegisterPenUseCase{pens: pens, cache: cache}
}

// Execute validates and stores the pen.
func (uc *RegisterPenUseCase) Execute(ctx context.Context, input RegisterPenInput) (*entity.Pen, error) {
	number := strings.TrimSpace(input.Number)
	if number == "" {
		return nil, invalidInput("number is required")
	}
	if input.Capacity <= 0 {
		return nil, domainerror.NewAllocationError(
			domainerror.ErrCodeInvalidPenCapacity,
			"capacity must be greater than zero",
			domainerror.ErrInvalidPenCapacity,
		)
	}

	pen := entity.NewPen(number, input.Capacity)
	if err := uc.pens.Create(ctx, pen); err != nil {
		return nil, toAllocationError(err, "failed to create pen")
	}

	adapter.InvalidateReports(ctx, uc.cache)
	return pen, nil
}

// SetPenStatusInput represents the input for opening or closing a pen.
type SetPenStatusInput struct {
	PenID  uuid.UUID
	Active bool
}

// SetPenStatusUseCase activates or deactivates a pen. Inactive pens take no new
// placements and drop out of the occupancy report.
type SetPenStatusUseCase struct {
	uow   adapter.UnitOfWork
	cache adapter.ReportCache
}

// NewSetPenStatusUseCase creates a new SetPenStatusUseCase instance.
func NewSetPenStatusUseCase(uow adapter.UnitOfWork, cache adapter.ReportCache) *SetPenStatusUseCase {
	return &SetPenStatusUseCase{uow: uow, cache: cache}
}

// Execute stores the new status. A pen still holding head cannot be deactivated.
func (uc *SetPenStatusUseCase) Execute(ctx context.Context, input SetPenStatusInput) (*entity.Pen, error) {
	var pen *entity.Pen
	err := uc.uow.Within(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		var err error
		pen, err = repos.Pens.FindByIDForUpdate(ctx, input.PenID)
		if err != nil {
			return err
		}
		if pen.IsActive == input.Active {
			return nil
		}

		if !input.Active {
			occupied, err := repos.Allocations.SumActiveByPen(ctx, pen.ID)
			if err != nil {
				return err
			}
			if occupied > 0 {
				return domainerror.NewAllocationError(
					domainerror.ErrCodePenOccupied,
					fmt.Sprintf("pen %s still holds %d head", pen.Number, occupied),
					domainerror.ErrPenOccupied,
				)
			}
		}

		pen.SetActive(input.Active)
		return repos.Pens.Update(ctx, pen)
	})
	if err != nil {
		return nil, toAllocationError(err, "failed to change pen status")
	}

	adapter.InvalidateReports(ctx, uc.cache)
	slog.Info("Pen status changed", "pen_id", pen.ID, "number", pen.Number, "active", pen.IsActive)
	return pen, nil
}

// ChangeLotStatusInput represents the input for moving a lot through its lifecycle.
type ChangeLotStatusInput struct {
	LotID  uuid.UUID
	Status string
	Date   time.Time // defaults to today
}

// ChangeLotStatusUseCase applies a lifecycle transition.
type ChangeLotStatusUseCase struct {
	uow   adapter.UnitOfWork
	cache adapter.ReportCache
	now   func() time.Time
}

// NewChangeLotStatusUseCase creates a new ChangeLotStatusUseCase instance.
func NewChangeLotStatusUseCase(uow adapter.UnitOfWork, cache adapter.ReportCache) *ChangeLotStatusUseCase {
	return &ChangeLotStatusUseCase{uow: uow, cache: cache, now: time.Now}
}

// Execute validates the transition and stamps the matching lifecycle date.
// Closing a lot (sold or cancelled) also closes its active pen allocations.
func (uc *ChangeLotStatusUseCase) Execute(ctx context.Context, input ChangeLotStatusInput) (*entity.Lot, error) {
	next := entity.LotStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	if !next.IsValid() {
		return nil, domainerror.NewAllocationError(
			domainerror.ErrCodeInvalidLotTransition,
			fmt.Sprintf("unknown lot status %q", input.Status),
			domainerror.ErrInvalidLotTransition,
		)
	}

	date := input.Date
	if date.IsZero() {
		date = uc.now().UTC()
	}
	date = valueobject.TruncateDay(date)

	var lot *entity.Lot
	err := uc.uow.Within(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		var err error
		lot, err = repos.Lots.FindByIDForUpdate(ctx, input.LotID)
		if err != nil {
			return err
		}
		if !lot.Status.CanTransitionTo(next) {
			return domainerror.NewAllocationError(
				domainerror.ErrCodeInvalidLotTransition,
				fmt.Sprintf("lot %s cannot move from %s to %s", lot.Code, lot.Status, next),
				domainerror.ErrInvalidLotTransition,
			)
		}

		lot.Status = next
		lot.UpdatedAt = time.Now().UTC()
		switch next {
		case entity.LotStatusReceived:
			lot.ReceivedAt = &date
		case entity.LotStatusConfined:
			lot.ConfinedAt = &date
		case entity.LotStatusSold, entity.LotStatusCancelled:
			lot.ClosedAt = &date
			if err := shrinkAllocations(ctx, repos.Allocations, lot.ID, 0, nil, date); err != nil {
				return err
			}
		}
		return repos.Lots.Update(ctx, lot)
	})
	if err != nil {
		return nil, toAllocationError(err, "failed to change lot status")
	}

	adapter.InvalidateReports(ctx, uc.cache)
	slog.Info("Lot status changed", "lot_id", lot.ID, "status", lot.Status)
	return lot, nil
}

// RecordMortalityInput represents the input for registering deaths in a lot.
type RecordMortalityInput struct {
	LotID    uuid.UUID
	PenID    *uuid.UUID
	Quantity int
	Cause    string
	Date     time.Time
}

// RecordMortalityUseCase registers deaths, decrements the lot and values the loss.
type RecordMortalityUseCase struct {
	uow   adapter.UnitOfWork
	cache adapter.ReportCache
}

// NewRecordMortalityUseCase creates a new RecordMortalityUseCase instance.
func NewRecordMortalityUseCase(uow adapter.UnitOfWork, cache adapter.ReportCache) *RecordMortalityUseCase {
	return &RecordMortalityUseCase{uow: uow, cache: cache}
}

// Execute stores the mortality record with the lot's unit cost at the time of death
// and reduces the lot head count, weight and pen allocations by the dead head.
func (uc *RecordMortalityUseCase) Execute(ctx context.Context, input RecordMortalityInput) (*entity.MortalityRecord, error) {
	if input.Quantity <= 0 {
		return nil, invalidQuantity()
	}
	if input.Date.IsZero() {
		return nil, invalidDate()
	}
	date := valueobject.TruncateDay(input.Date)
	cause := strings.TrimSpace(input.Cause)
	if cause == "" {
		cause = "unspecified"
	}

	var record *entity.MortalityRecord
	err := uc.uow.Within(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		lot, err := repos.Lots.FindByIDForUpdate(ctx, input.LotID)
		if err != nil {
			return err
		}
		if err := checkRemovable(lot, input.Quantity); err != nil {
			return err
		}
		if input.PenID != nil {
			if _, err := repos.Pens.FindByID(ctx, *input.PenID); err != nil {
				return err
			}
		}

		totals, err := repos.CostEvents.TotalsByLot(ctx, lot.ID)
		if err != nil {
			return err
		}
		unitCost := lot.UnitCost(lot.TotalCost(totals)).Round(4)

		record = entity.NewMortalityRecord(lot.ID, input.PenID, input.Quantity, date, cause)
		record.UnitCost = &unitCost
		if err := repos.Mortalities.Create(ctx, record); err != nil {
			return err
		}

		removeHead(lot, input.Quantity)
		if err := repos.Lots.Update(ctx, lot); err != nil {
			return err
		}
		return shrinkAllocations(ctx, repos.Allocations, lot.ID, lot.CurrentQuantity, input.PenID, date)
	})
	if err != nil {
		return nil, toAllocationError(err, "failed to record mortality")
	}

	adapter.InvalidateReports(ctx, uc.cache)
	slog.Info("Mortality recorded",
		"lot_id", record.LotID,
		"quantity", record.Quantity,
		"loss", record.Loss().StringFixed(2),
	)
	return record, nil
}

// RecordSaleInput represents the input for selling head out of a lot.
// ReceivedOn settles the generated revenue immediately.
type RecordSaleInput struct {
	LotID      uuid.UUID
	Quantity   int
	Amount     decimal.Decimal
	Date       time.Time
	ReceivedOn *time.Time
}

// RecordSaleOutput holds the sale and the revenue it generated.
type RecordSaleOutput struct {
	Sale    *entity.Sale
	Revenue *entity.Revenue
	Lot     *entity.Lot
}

// RecordSaleUseCase sells head out of a lot.
type RecordSaleUseCase struct {
	uow   adapter.UnitOfWork
	cache adapter.ReportCache
}

// NewRecordSaleUseCase creates a new RecordSaleUseCase instance.
func NewRecordSaleUseCase(uow adapter.UnitOfWork, cache adapter.ReportCache) *RecordSaleUseCase {
	return &RecordSaleUseCase{uow: uow, cache: cache}
}

// Execute stores the sale and its revenue and decrements the lot. A lot left
// without head becomes sold.
func (uc *RecordSaleUseCase) Execute(ctx context.Context, input RecordSaleInput) (*RecordSaleOutput, error) {
	if input.Quantity <= 0 {
		return nil, invalidQuantity()
	}
	if !input.Amount.IsPositive() {
		return nil, invalidInput("amount must be greater than zero")
	}
	if input.Date.IsZero() {
		return nil, invalidDate()
	}
	date := valueobject.TruncateDay(input.Date)

	output := &RecordSaleOutput{}
	err := uc.uow.Within(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		lot, err := repos.Lots.FindByIDForUpdate(ctx, input.LotID)
		if err != nil {
			return err
		}
		if !lot.IsActive() {
			return domainerror.NewAllocationError(
				domainerror.ErrCodeLotNotSellable,
				fmt.Sprintf("lot %s is %s", lot.Code, lot.Status),
				domainerror.ErrLotNotSellable,
			)
		}
		if err := checkRemovable(lot, input.Quantity); err != nil {
			return err
		}

		sale := entity.NewSale(lot.ID, input.Quantity, input.Amount.Round(2), date)
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}

		revenue := entity.NewRevenue(
			fmt.Sprintf("Lot %s - %d head", lot.Code, input.Quantity),
			sale.TotalAmount,
			date,
			&lot.ID,
		)
		revenue.SaleID = &sale.ID
		if input.ReceivedOn != nil {
			revenue.MarkReceived(valueobject.TruncateDay(*input.ReceivedOn))
		}
		if err := repos.Revenues.Create(ctx, revenue); err != nil {
			return err
		}

		removeHead(lot, input.Quantity)
		if lot.CurrentQuantity == 0 {
			if !lot.Status.CanTransitionTo(entity.LotStatusSold) {
				return domainerror.NewAllocationError(
					domainerror.ErrCodeInvalidLotTransition,
					fmt.Sprintf("lot %s cannot move from %s to %s", lot.Code, lot.Status, entity.LotStatusSold),
					domainerror.ErrInvalidLotTransition,
				)
			}
			lot.Status = entity.LotStatusSold
			lot.ClosedAt = &date
		}
		if err := repos.Lots.Update(ctx, lot); err != nil {
			return err
		}
		if err := shrinkAllocations(ctx, repos.Allocations, lot.ID, lot.CurrentQuantity, nil, date); err != nil {
			return err
		}

		output.Sale, output.Revenue, output.Lot = sale, revenue, lot
		return nil
	})
	if err != nil {
		return nil, toAllocationError(err, "failed to record sale")
	}

	adapter.InvalidateReports(ctx, uc.cache)
	slog.Info("Sale recorded",
		"lot_id", output.Lot.ID,
		"quantity", output.Sale.Quantity,
		"amount", output.Sale.TotalAmount.StringFixed(2),
		"lot_status", output.Lot.Status,
	)
	return output, nil
}

// RecordWeighingInput represents the input for updating a lot's live weight.
type RecordWeighingInput struct {
	LotID       uuid.UUID
	TotalWeight decimal.Decimal
}

// RecordWeighingUseCase stores a new total live weight for a lot.
type RecordWeighingUseCase struct {
	uow   adapter.UnitOfWork
	cache adapter.ReportCache
}

// NewRecordWeighingUseCase creates a new RecordWeighingUseCase instance.
func NewRecordWeighingUseCase(uow adapter.UnitOfWork, cache adapter.ReportCache) *RecordWeighingUseCase {
	return &RecordWeighingUseCase{uow: uow, cache: cache}
}

// Execute replaces the lot's current weight.
func (uc *RecordWeighingUseCase) Execute(ctx context.Context, input RecordWeighingInput) (*entity.Lot, error) {
	if !input.TotalWeight.IsPositive() {
		return nil, invalidInput("total weight must be greater than zero")
	}

	var lot *entity.Lot
	err := uc.uow.Within(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		var err error
		lot, err = repos.Lots.FindByIDForUpdate(ctx, input.LotID)
		if err != nil {
			return err
		}
		if lot.Status == entity.LotStatusSold || lot.Status == entity.LotStatusCancelled {
			return domainerror.NewAllocationError(
				domainerror.ErrCodeInvalidLotTransition,
				fmt.Sprintf("lot %s is closed", lot.Code),
				domainerror.ErrInvalidLotTransition,
			)
		}

		lot.CurrentWeight = input.TotalWeight
		lot.UpdatedAt = time.Now().UTC()
		return repos.Lots.Update(ctx, lot)
	})
	if err != nil {
		return nil, toAllocationError(err, "failed to record weighing")
	}

	adapter.InvalidateReports(ctx, uc.cache)
	return lot, nil
}

// RegisterHealthInterventionInput represents the input for a lot-specific treatment.
type RegisterHealthInterventionInput struct {
	LotID       uuid.UUID
	Description string
	Cost        decimal.Decimal
	AppliedOn   time.Time
}

// RegisterHealthInterventionUseCase stores a treatment that the daily allocation
// charges directly to its lot.
type RegisterHealthInterventionUseCase struct {
	lots          adapter.LotRepository
	interventions adapter.HealthInterventionRepository
}

// NewRegisterHealthInterventionUseCase creates a new RegisterHealthInterventionUseCase instance.
func NewRegisterHealthInterventionUseCase(lots adapter.LotRepository, interventions adapter.HealthInterventionRepository) *RegisterHealthInterventionUseCase {
	return &RegisterHealthInterventionUseCase{lots: lots, interventions: interventions}
}

// Execute validates and stores the intervention.
func (uc *RegisterHealthInterventionUseCase) Execute(ctx context.Context, input RegisterHealthInterventionInput) (*entity.HealthIntervention, error) {
	description := strings.TrimSpace(input.Description)
	switch {
	case description == "":
		return nil, invalidInput("description is required")
	case !input.Cost.IsPositive():
		return nil, invalidInput("cost must be greater than zero")
	case input.AppliedOn.IsZero():
		return nil, invalidDate()
	}

	lot, err := uc.lots.FindByID(ctx, input.LotID)
	if err != nil {
		return nil, toAllocationError(err, "failed to read lot")
	}
	if !lot.IsActive() {
		slog.Warn("Health intervention registered for a lot that is not confined",
			"lot_id", lot.ID, "status", lot.Status)
	}

	intervention := entity.NewHealthIntervention(lot.ID, description, input.Cost.Round(2), valueobject.TruncateDay(input.AppliedOn))
	if err := uc.interventions.Create(ctx, intervention); err != nil {
		return nil, toAllocationError(err, "failed to create health intervention")
	}
	return intervention, nil
}

// checkRemovable rejects removing more head than the lot holds.
func checkRemovable(lot *entity.Lot, quantity int) error {
	if lot.Status == entity.LotStatusCancelled {
		return domainerror.NewAllocationError(
			domainerror.ErrCodeInvalidLotTransition,
			fmt.Sprintf("lot %s is cancelled", lot.Code),
			domainerror.ErrInvalidLotTransition,
		)
	}
	if quantity > lot.CurrentQuantity {
		return domainerror.NewAllocationError(
			domainerror.ErrCodeQuantityExceedsLot,
			fmt.Sprintf("lot %s has %d head, cannot remove %d", lot.Code, lot.CurrentQuantity, quantity),
			domainerror.ErrQuantityExceedsLot,
		)
	}
	return nil
}

// removeHead decrements the head count and drops the average weight of the removed head.
func removeHead(lot *entity.Lot, quantity int) {
	if lot.CurrentQuantity > 0 {
		perHead := lot.CurrentWeight.Div(decimal.NewFromInt(int64(lot.CurrentQuantity)))
		lot.CurrentWeight = lot.CurrentWeight.Sub(perHead.Mul(decimal.NewFromInt(int64(quantity)))).Round(2)
		if lot.CurrentWeight.IsNegative() {
			lot.CurrentWeight = decimal.Zero
		}
	}
	lot.CurrentQuantity -= quantity
	lot.UpdatedAt = time.Now().UTC()
}
