package valueobject

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/domain/entity"
)

// ConsistencyTolerance bounds the accepted gap between the reconciliation
// difference and the signed non-cash total.
var ConsistencyTolerance = decimal.New(1, -6)

// PeriodComputation is the full result of reconciling one month of ledger entries.
type PeriodComputation struct {
	Analysis       *entity.PeriodAnalysis
	CashFlow       entity.CashFlowBreakdown
	CategoryTotals []entity.CategoryTotal
}

// ComputePeriodAnalysis derives the accrual-versus-cash reconciliation of a month
// from its transactions. It is a pure function of its inputs: transactions outside
// the month are ignored and nothing is read from or written to a store.
func ComputePeriodAnalysis(month Month, transactions []*entity.Transaction) PeriodComputation {
	var (
		totalRevenue  = decimal.Zero
		totalExpenses = decimal.Zero
		cashReceipts  = decimal.Zero
		cashPayments  = decimal.Zero
		nonCashAbs    = decimal.Zero
		nonCashSigned = decimal.Zero
		depreciation  = decimal.Zero
		mortality     = decimal.Zero
		biological    = decimal.Zero
		otherNonCash  = decimal.Zero
		breakdown     = newCashFlowBreakdown()
		byCategory    = map[entity.TransactionCategory]*entity.CategoryTotal{}
		warnings      []string
		count         int
	)

	for _, tx := range transactions {
		if !month.Contains(tx.ReferenceDate) {
			continue
		}
		count++

		if err := tx.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("transaction %s (%s): %v", tx.ID, tx.Description, err))
		}

		if tx.Amount.IsPositive() {
			totalRevenue = totalRevenue.Add(tx.Amount)
		} else {
			totalExpenses = totalExpenses.Add(tx.Amount.Abs())
		}

		ct, ok := byCategory[tx.Category]
		if !ok {
			ct = &entity.CategoryTotal{Category: tx.Category, Amount: decimal.Zero}
			byCategory[tx.Category] = ct
		}
		ct.Amount = ct.Amount.Add(tx.Amount)
		ct.Count++

		if tx.ImpactsCash {
			if tx.Amount.IsPositive() {
				cashReceipts = cashReceipts.Add(tx.Amount)
			} else {
				cashPayments = cashPayments.Add(tx.Amount.Abs())
			}

			class := entity.CashFlowOperating
			if tx.CashFlowClass != nil {
				class = *tx.CashFlowClass
			} else {
				warnings = append(warnings, fmt.Sprintf("transaction %s (%s): cash-impacting without cash flow class, counted as operating", tx.ID, tx.Description))
			}
			breakdown.add(class, tx.Amount)
			continue
		}

		nonCashAbs = nonCashAbs.Add(tx.Amount.Abs())
		nonCashSigned = nonCashSigned.Add(tx.Amount)
		switch tx.Category {
		case entity.CategoryDepreciation:
			depreciation = depreciation.Add(tx.Amount.Abs())
		case entity.CategoryMortality:
			mortality = mortality.Add(tx.Amount.Abs())
		case entity.CategoryBiologicalAdjustment:
			biological = biological.Add(tx.Amount)
		default:
			otherNonCash = otherNonCash.Add(tx.Amount.Abs())
		}
	}

	netIncome := totalRevenue.Sub(totalExpenses)
	netCashFlow := cashReceipts.Sub(cashPayments)
	difference := netIncome.Sub(netCashFlow)

	if gap := difference.Sub(nonCashSigned).Abs(); gap.GreaterThan(ConsistencyTolerance) {
		warnings = append(warnings, fmt.Sprintf(
			"reconciliation difference %s does not match signed non-cash total %s",
			difference.StringFixed(2), nonCashSigned.StringFixed(2),
		))
	}

	now := time.Now().UTC()
	analysis := &entity.PeriodAnalysis{
		ID:                       uuid.New(),
		ReferenceMonth:           month.String(),
		Year:                     month.Year,
		TotalRevenue:             totalRevenue,
		TotalExpenses:            totalExpenses,
		NetIncome:                netIncome,
		CashReceipts:             cashReceipts,
		CashPayments:             cashPayments,
		NetCashFlow:              netCashFlow,
		NonCashItems:             nonCashAbs,
		Depreciation:             depreciation,
		MortalityLoss:            mortality,
		BiologicalAdjustments:    biological,
		OtherNonCash:             otherNonCash,
		ReconciliationDifference: difference,
		TransactionCount:         count,
		Warnings:                 warnings,
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	totals := make([]entity.CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		totals = append(totals, *ct)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Category < totals[j].Category })

	return PeriodComputation{
		Analysis:       analysis,
		CashFlow:       breakdown.result(),
		CategoryTotals: totals,
	}
}

type cashFlowAccumulator map[entity.CashFlowClass]*entity.CashFlowClassTotals

func newCashFlowBreakdown() cashFlowAccumulator {
	acc := cashFlowAccumulator{}
	for _, c := range []entity.CashFlowClass{entity.CashFlowOperating, entity.CashFlowInvesting, entity.CashFlowFinancing} {
		acc[c] = &entity.CashFlowClassTotals{Receipts: decimal.Zero, Payments: decimal.Zero, Net: decimal.Zero}
	}
	return acc
}

func (a cashFlowAccumulator) add(class entity.CashFlowClass, amount decimal.Decimal) {
	totals, ok := a[class]
	if !ok {
		totals = a[entity.CashFlowOperating]
	}
	if amount.IsPositive() {
		totals.Receipts = totals.Receipts.Add(amount)
	} else {
		totals.Payments = totals.Payments.Add(amount.Abs())
	}
	totals.Net = totals.Receipts.Sub(totals.Payments)
}

func (a cashFlowAccumulator) result() entity.CashFlowBreakdown {
	return entity.CashFlowBreakdown{
		Operating: *a[entity.CashFlowOperating],
		Investing: *a[entity.CashFlowInvesting],
		Financing: *a[entity.CashFlowFinancing],
	}
}
