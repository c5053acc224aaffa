package dto

import (
	"time"

	"github.com/boi-gordo/backend/internal/application/usecase/reconciliation"
	"github.com/boi-gordo/backend/internal/domain/entity"
)

// PeriodAnalysisResponse represents a monthly reconciliation snapshot.
type PeriodAnalysisResponse struct {
	ID                       string    `json:"id"`
	ReferenceMonth           string    `json:"reference_month"`
	Year                     int       `json:"year"`
	TotalRevenue             string    `json:"total_revenue"`
	TotalExpenses            string    `json:"total_expenses"`
	NetIncome                string    `json:"net_income"`
	CashReceipts             string    `json:"cash_receipts"`
	CashPayments             string    `json:"cash_payments"`
	NetCashFlow              string    `json:"net_cash_flow"`
	NonCashItems             string    `json:"non_cash_items"`
	Depreciation             string    `json:"depreciation"`
	MortalityLoss            string    `json:"mortality_loss"`
	BiologicalAdjustments    string    `json:"biological_adjustments"`
	OtherNonCash             string    `json:"other_non_cash"`
	ReconciliationDifference string    `json:"reconciliation_difference"`
	TransactionCount         int       `json:"transaction_count"`
	Warnings                 []string  `json:"warnings"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// CashFlowClassResponse holds receipts and payments for one cash-flow class.
type CashFlowClassResponse struct {
	Receipts string `json:"receipts"`
	Payments string `json:"payments"`
	Net      string `json:"net"`
}

// CashFlowBreakdownResponse splits cash movements by class.
type CashFlowBreakdownResponse struct {
	Operating CashFlowClassResponse `json:"operating"`
	Investing CashFlowClassResponse `json:"investing"`
	Financing CashFlowClassResponse `json:"financing"`
}

// CategoryTotalResponse holds the accrual total of one category.
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Count    int    `json:"count"`
}

// AnalysisResponse represents a reconciled month with its breakdowns.
type AnalysisResponse struct {
	Analysis       PeriodAnalysisResponse    `json:"analysis"`
	CashFlow       CashFlowBreakdownResponse `json:"cash_flow"`
	CategoryTotals []CategoryTotalResponse   `json:"category_totals"`
	Ingestion      *IngestMonthResponse      `json:"ingestion,omitempty"`
}

// AnalysisListResponse represents the stored analyses of a year.
type AnalysisListResponse struct {
	Year     int                      `json:"year"`
	Analyses []PeriodAnalysisResponse `json:"analyses"`
}

// ToPeriodAnalysisResponse converts a period analysis to its DTO.
func ToPeriodAnalysisResponse(a *entity.PeriodAnalysis) PeriodAnalysisResponse {
	warnings := a.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return PeriodAnalysisResponse{
		ID:                       a.ID.String(),
		ReferenceMonth:           a.ReferenceMonth,
		Year:                     a.Year,
		TotalRevenue:             formatMoney(a.TotalRevenue),
		TotalExpenses:            formatMoney(a.TotalExpenses),
		NetIncome:                formatMoney(a.NetIncome),
		CashReceipts:             formatMoney(a.CashReceipts),
		CashPayments:             formatMoney(a.CashPayments),
		NetCashFlow:              formatMoney(a.NetCashFlow),
		NonCashItems:             formatMoney(a.NonCashItems),
		Depreciation:             formatMoney(a.Depreciation),
		MortalityLoss:            formatMoney(a.MortalityLoss),
		BiologicalAdjustments:    formatMoney(a.BiologicalAdjustments),
		OtherNonCash:             formatMoney(a.OtherNonCash),
		ReconciliationDifference: formatMoney(a.ReconciliationDifference),
		TransactionCount:         a.TransactionCount,
		Warnings:                 warnings,
		UpdatedAt:                a.UpdatedAt,
	}
}

func toCashFlowClassResponse(t entity.CashFlowClassTotals) CashFlowClassResponse {
	return CashFlowClassResponse{
		Receipts: formatMoney(t.Receipts),
		Payments: formatMoney(t.Payments),
		Net:      formatMoney(t.Net),
	}
}

// ToAnalysisResponse converts an analysis output to its DTO.
func ToAnalysisResponse(output *reconciliation.AnalysisOutput) AnalysisResponse {
	totals := make([]CategoryTotalResponse, len(output.CategoryTotals))
	for i, t := range output.CategoryTotals {
		totals[i] = CategoryTotalResponse{
			Category: string(t.Category),
			Amount:   formatMoney(t.Amount),
			Count:    t.Count,
		}
	}
	return AnalysisResponse{
		Analysis: ToPeriodAnalysisResponse(output.Analysis),
		CashFlow: CashFlowBreakdownResponse{
			Operating: toCashFlowClassResponse(output.CashFlow.Operating),
			Investing: toCashFlowClassResponse(output.CashFlow.Investing),
			Financing: toCashFlowClassResponse(output.CashFlow.Financing),
		},
		CategoryTotals: totals,
	}
}

// ToReconcileResponse converts a reconciliation run, including its ingestion summary.
func ToReconcileResponse(output *reconciliation.ReconcilePeriodOutput) AnalysisResponse {
	response := ToAnalysisResponse(&output.AnalysisOutput)
	response.Ingestion = ToIngestMonthResponse(output.Ingestion)
	return response
}

// ToAnalysisListResponse converts a yearly listing to its DTO.
func ToAnalysisListResponse(output *reconciliation.ListAnalysesOutput) AnalysisListResponse {
	analyses := make([]PeriodAnalysisResponse, len(output.Analyses))
	for i, a := range output.Analyses {
		analyses[i] = ToPeriodAnalysisResponse(a)
	}
	return AnalysisListResponse{
		Year:     output.Year,
		Analyses: analyses,
	}
}
