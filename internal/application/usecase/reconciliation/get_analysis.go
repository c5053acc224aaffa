package reconciliation

import (
	"context"
	"errors"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

// GetAnalysisInput represents the input for reading a stored period analysis.
type GetAnalysisInput struct {
	Month string // YYYY-MM
}

// GetAnalysisUseCase returns a stored analysis with breakdowns recomputed from the ledger.
type GetAnalysisUseCase struct {
	ledger   adapter.LedgerRepository
	analyses adapter.PeriodAnalysisRepository
}

// NewGetAnalysisUseCase creates a new GetAnalysisUseCase instance.
func NewGetAnalysisUseCase(ledgerRepo adapter.LedgerRepository, analyses adapter.PeriodAnalysisRepository) *GetAnalysisUseCase {
	return &GetAnalysisUseCase{ledger: ledgerRepo, analyses: analyses}
}

// Execute reads the analysis of the month. Nothing is ingested or written.
func (uc *GetAnalysisUseCase) Execute(ctx context.Context, input GetAnalysisInput) (*AnalysisOutput, error) {
	month, err := parseMonth(input.Month)
	if err != nil {
		return nil, err
	}

	analysis, err := uc.analyses.FindByMonth(ctx, month.String())
	if err != nil {
		if errors.Is(err, domainerror.ErrPeriodAnalysisNotFound) {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodePeriodAnalysisNotFound,
				"no analysis for "+month.String()+", reconcile the period first",
				err,
			)
		}
		return nil, internalError("failed to read period analysis", err)
	}

	result, err := compute(ctx, uc.ledger, month)
	if err != nil {
		return nil, err
	}

	return &AnalysisOutput{
		Analysis:       analysis,
		CashFlow:       result.CashFlow,
		CategoryTotals: result.CategoryTotals,
	}, nil
}

// ListAnalysesInput represents the input for listing a year's analyses.
type ListAnalysesInput struct {
	Year int
}

// ListAnalysesOutput represents the analyses of a year in month order.
type ListAnalysesOutput struct {
	Year     int
	Analyses []*entity.PeriodAnalysis
}

// ListAnalysesByYearUseCase lists the stored analyses of a year.
type ListAnalysesByYearUseCase struct {
	analyses adapter.PeriodAnalysisRepository
}

// NewListAnalysesByYearUseCase creates a new ListAnalysesByYearUseCase instance.
func NewListAnalysesByYearUseCase(analyses adapter.PeriodAnalysisRepository) *ListAnalysesByYearUseCase {
	return &ListAnalysesByYearUseCase{analyses: analyses}
}

// Execute returns the year's analyses.
func (uc *ListAnalysesByYearUseCase) Execute(ctx context.Context, input ListAnalysesInput) (*ListAnalysesOutput, error) {
	if input.Year < 1900 || input.Year > 9999 {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidYear,
			"year must be between 1900 and 9999",
			domainerror.ErrInvalidYear,
		)
	}

	analyses, err := uc.analyses.FindByYear(ctx, input.Year)
	if err != nil {
		return nil, internalError("failed to list period analyses", err)
	}

	return &ListAnalysesOutput{Year: input.Year, Analyses: analyses}, nil
}
