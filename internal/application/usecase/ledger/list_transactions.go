package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

// ListTransactionsInput represents the input for listing ledger transactions.
type ListTransactionsInput struct {
	StartDate   *time.Time
	EndDate     *time.Time
	Category    *string
	ImpactsCash *bool
	LotID       *string
}

// ListTransactionsOutput represents the output of listing ledger transactions.
type ListTransactionsOutput struct {
	Transactions []*entity.Transaction
	Count        int
}

// ListTransactionsUseCase handles listing ledger transactions.
type ListTransactionsUseCase struct {
	ledger adapter.LedgerRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(ledger adapter.LedgerRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		ledger: ledger,
	}
}

// Execute lists ledger transactions matching the filter.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	filter, err := uc.buildFilter(input)
	if err != nil {
		return nil, err
	}

	transactions, err := uc.ledger.FindByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &ListTransactionsOutput{
		Transactions: transactions,
		Count:        len(transactions),
	}, nil
}

func (uc *ListTransactionsUseCase) buildFilter(input ListTransactionsInput) (entity.TransactionFilter, error) {
	filter := entity.TransactionFilter{
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		ImpactsCash: input.ImpactsCash,
	}

	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return filter, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidLedgerFilter,
			"end_date must not be before start_date",
			domainerror.ErrInvalidDateRange,
		)
	}

	if input.Category != nil {
		category := entity.TransactionCategory(*input.Category)
		if !category.IsValid() {
			return filter, domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidLedgerFilter,
				"invalid category",
				entity.ErrTransactionInvalidCategory,
			)
		}
		filter.Category = &category
	}

	if input.LotID != nil {
		lotID, err := uuid.Parse(*input.LotID)
		if err != nil {
			return filter, domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidLedgerFilter,
				"lot_id must be a valid UUID",
				err,
			)
		}
		filter.LotID = &lotID
	}

	return filter, nil
}
