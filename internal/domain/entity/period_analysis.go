package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodAnalysis is the monthly accrual-versus-cash reconciliation artifact.
type PeriodAnalysis struct {
	ID                       uuid.UUID
	ReferenceMonth           string // YYYY-MM
	Year                     int
	TotalRevenue             decimal.Decimal
	TotalExpenses            decimal.Decimal
	NetIncome                decimal.Decimal
	CashReceipts             decimal.Decimal
	CashPayments             decimal.Decimal
	NetCashFlow              decimal.Decimal
	NonCashItems             decimal.Decimal
	Depreciation             decimal.Decimal
	MortalityLoss            decimal.Decimal
	BiologicalAdjustments    decimal.Decimal
	OtherNonCash             decimal.Decimal
	ReconciliationDifference decimal.Decimal
	TransactionCount         int
	Warnings                 []string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// HasWarnings reports whether the analysis carries consistency warnings.
func (p *PeriodAnalysis) HasWarnings() bool {
	return len(p.Warnings) > 0
}

// CashFlowClassTotals holds receipts and payments of one cash-flow class.
type CashFlowClassTotals struct {
	Receipts decimal.Decimal
	Payments decimal.Decimal
	Net      decimal.Decimal
}

// CashFlowBreakdown splits cash movements by class.
type CashFlowBreakdown struct {
	Operating CashFlowClassTotals
	Investing CashFlowClassTotals
	Financing CashFlowClassTotals
}

// CategoryTotal is the signed total and count of one ledger category.
type CategoryTotal struct {
	Category TransactionCategory
	Amount   decimal.Decimal
	Count    int
}
