// Package reconciliation contains the monthly accrual-versus-cash reconciliation use cases.
package reconciliation

import (
	"context"
	"errors"
	"strings"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
)

// AnalysisOutput is a stored period analysis with the breakdowns derived from its ledger.
type AnalysisOutput struct {
	Analysis       *entity.PeriodAnalysis
	CashFlow       entity.CashFlowBreakdown
	CategoryTotals []entity.CategoryTotal
}

func parseMonth(raw string) (valueobject.Month, error) {
	month, err := valueobject.ParseMonth(strings.TrimSpace(raw))
	if err != nil {
		return valueobject.Month{}, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidMonth,
			"month must be formatted as YYYY-MM",
			domainerror.ErrInvalidMonth,
		)
	}
	return month, nil
}

func internalError(message string, err error) error {
	var ledgerErr *domainerror.LedgerError
	if errors.As(err, &ledgerErr) {
		return err
	}
	return domainerror.NewLedgerError(domainerror.ErrCodeLedgerInternalError, message, err)
}

// compute reads the month's ledger and runs the pure reconciliation over it.
func compute(ctx context.Context, ledger adapter.LedgerRepository, month valueobject.Month) (valueobject.PeriodComputation, error) {
	transactions, err := ledger.FindByReferenceRange(ctx, month.Start(), month.End())
	if err != nil {
		return valueobject.PeriodComputation{}, internalError("failed to read ledger", err)
	}
	return valueobject.ComputePeriodAnalysis(month, transactions), nil
}
