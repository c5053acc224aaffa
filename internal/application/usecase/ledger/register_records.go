package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

// RegisterExpenseInput represents the input for registering an expense.
type RegisterExpenseInput struct {
	Description string
	Category    string
	Amount      decimal.Decimal
	DueDate     time.Time
	PaymentDate *time.Time
	ImpactsCash bool
	LotID       *uuid.UUID
}

// RegisterExpenseUseCase validates and stores expenses at the data-entry boundary.
// An expense charged to a lot also appends a cost event to that lot.
type RegisterExpenseUseCase struct {
	uow   adapter.UnitOfWork
	cache adapter.ReportCache
}

// NewRegisterExpenseUseCase creates a new RegisterExpenseUseCase instance.
func NewRegisterExpenseUseCase(uow adapter.UnitOfWork, cache adapter.ReportCache) *RegisterExpenseUseCase {
	return &RegisterExpenseUseCase{uow: uow, cache: cache}
}

// Execute registers the expense.
func (uc *RegisterExpenseUseCase) Execute(ctx context.Context, input RegisterExpenseInput) (*entity.Expense, error) {
	category, err := entity.ParseExpenseCategory(input.Category)
	if err != nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidExpenseCategory,
			"category must be one of: feed, veterinary, labor, administrative, infrastructure, freight, operational, depreciation, biological_adjustment",
			err,
		)
	}

	if err := validateRecord(input.Description, input.Amount, input.DueDate); err != nil {
		// Biological adjustments may revalue the herd upwards.
		if !(category == entity.ExpenseCategoryBiologicalAdjustment && errors.Is(err, domainerror.ErrInvalidExpenseAmount) && !input.Amount.IsZero()) {
			return nil, err
		}
	}

	expense := entity.NewExpense(
		strings.TrimSpace(input.Description),
		category,
		input.Amount,
		input.DueDate,
		input.ImpactsCash,
		input.LotID,
	)
	if input.PaymentDate != nil {
		expense.MarkPaid(*input.PaymentDate)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		if input.LotID != nil {
			if _, err := repos.Lots.FindByID(ctx, *input.LotID); err != nil {
				return err
			}
		}

		if err := repos.Expenses.Create(ctx, expense); err != nil {
			return err
		}

		if input.LotID == nil || category == entity.ExpenseCategoryDepreciation || category == entity.ExpenseCategoryBiologicalAdjustment {
			return nil
		}

		id := expense.ID
		event := entity.NewLotCostEvent(*input.LotID, category.CostBucket(), expense.TotalAmount, entity.CostSourceExpense, &id, input.DueDate)
		return repos.CostEvents.CreateBatch(ctx, []*entity.LotCostEvent{event})
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrLotNotFound) {
			return nil, domainerror.NewLedgerError(domainerror.ErrCodeLedgerLotNotFound, "lot not found", err)
		}
		return nil, domainerror.NewLedgerError(domainerror.ErrCodeLedgerInternalError, "failed to register expense", err)
	}

	adapter.InvalidateReports(ctx, uc.cache)
	return expense, nil
}

// RegisterRevenueInput represents the input for registering a revenue.
type RegisterRevenueInput struct {
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	ReceiptDate *time.Time
	LotID       *uuid.UUID
}

// RegisterRevenueUseCase stores revenues.
type RegisterRevenueUseCase struct {
	revenues adapter.RevenueRepository
	lots     adapter.LotRepository
	cache    adapter.ReportCache
}

// NewRegisterRevenueUseCase creates a new RegisterRevenueUseCase instance.
func NewRegisterRevenueUseCase(revenues adapter.RevenueRepository, lots adapter.LotRepository, cache adapter.ReportCache) *RegisterRevenueUseCase {
	return &RegisterRevenueUseCase{
		revenues: revenues,
		lots:     lots,
		cache:    cache,
	}
}

// Execute registers the revenue.
func (uc *RegisterRevenueUseCase) Execute(ctx context.Context, input RegisterRevenueInput) (*entity.Revenue, error) {
	if err := validateRecord(input.Description, input.Amount, input.DueDate); err != nil {
		return nil, err
	}

	if input.LotID != nil {
		if _, err := uc.lots.FindByID(ctx, *input.LotID); err != nil {
			if errors.Is(err, domainerror.ErrLotNotFound) {
				return nil, domainerror.NewLedgerError(domainerror.ErrCodeLedgerLotNotFound, "lot not found", err)
			}
			return nil, domainerror.NewLedgerError(domainerror.ErrCodeLedgerInternalError, "failed to find lot", err)
		}
	}

	revenue := entity.NewRevenue(strings.TrimSpace(input.Description), input.Amount, input.DueDate, input.LotID)
	if input.ReceiptDate != nil {
		revenue.MarkReceived(*input.ReceiptDate)
	}

	if err := uc.revenues.Create(ctx, revenue); err != nil {
		return nil, domainerror.NewLedgerError(domainerror.ErrCodeLedgerInternalError, "failed to register revenue", err)
	}

	adapter.InvalidateReports(ctx, uc.cache)
	return revenue, nil
}

// RegisterContributionInput represents the input for registering a partner contribution.
type RegisterContributionInput struct {
	PartnerName string
	Amount      decimal.Decimal
	Date        time.Time
}

// RegisterContributionUseCase stores partner contributions.
type RegisterContributionUseCase struct {
	contributions adapter.ContributionRepository
	cache         adapter.ReportCache
}

// NewRegisterContributionUseCase creates a new RegisterContributionUseCase instance.
func NewRegisterContributionUseCase(contributions adapter.ContributionRepository, cache adapter.ReportCache) *RegisterContributionUseCase {
	return &RegisterContributionUseCase{contributions: contributions, cache: cache}
}

// Execute registers the contribution.
func (uc *RegisterContributionUseCase) Execute(ctx context.Context, input RegisterContributionInput) (*entity.Contribution, error) {
	if err := validateRecord(input.PartnerName, input.Amount, input.Date); err != nil {
		return nil, err
	}

	contribution := entity.NewContribution(strings.TrimSpace(input.PartnerName), input.Amount, input.Date)
	if err := uc.contributions.Create(ctx, contribution); err != nil {
		return nil, domainerror.NewLedgerError(domainerror.ErrCodeLedgerInternalError, "failed to register contribution", err)
	}

	adapter.InvalidateReports(ctx, uc.cache)
	return contribution, nil
}

// validateRecord checks the fields every source record shares.
func validateRecord(description string, amount decimal.Decimal, date time.Time) error {
	if strings.TrimSpace(description) == "" {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidExpenseInput,
			"description is required",
			nil,
		)
	}
	if date.IsZero() {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidExpenseInput,
			"date is required",
			domainerror.ErrSourceDateMissing,
		)
	}
	if !amount.IsPositive() {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidExpenseInput,
			"amount must be greater than zero",
			domainerror.ErrInvalidExpenseAmount,
		)
	}
	return nil
}
