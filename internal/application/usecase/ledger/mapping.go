// Package ledger contains ledger ingestion and source-record use cases.
package ledger

import (
	"fmt"

	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

func operating() *entity.CashFlowClass {
	class := entity.CashFlowOperating
	return &class
}

// revenueTransaction maps a received revenue to a cattle sale inflow.
func revenueTransaction(r *entity.Revenue) (*entity.Transaction, error) {
	if r.ReceiptDate == nil {
		return nil, domainerror.ErrSourceDateMissing
	}
	date := *r.ReceiptDate

	tx := entity.NewTransaction(
		date,
		fmt.Sprintf("Cattle sale - %s", r.Description),
		r.TotalAmount.Abs(),
		entity.CategoryCattleSales,
		true,
		&date,
		operating(),
	)
	return tx.WithSource(entity.SourceRevenue, r.ID).WithLinks(r.LotID, nil), nil
}

// purchaseTransaction maps a purchased lot to a cattle acquisition outflow.
func purchaseTransaction(l *entity.Lot) (*entity.Transaction, error) {
	if l.PurchaseDate == nil {
		return nil, domainerror.ErrSourceDateMissing
	}
	date := *l.PurchaseDate

	tx := entity.NewTransaction(
		date,
		fmt.Sprintf("Cattle purchase - %s", l.Code),
		l.AcquisitionCost.Abs().Neg(),
		entity.CategoryCattleAcquisition,
		true,
		&date,
		operating(),
	)
	lotID := l.ID
	return tx.WithSource(entity.SourcePurchase, l.ID).WithLinks(&lotID, nil), nil
}

// expenseTransaction maps a paid expense. Non-cash expenses carry no cash flow date or class.
// Biological adjustments keep the sign they were registered with.
func expenseTransaction(e *entity.Expense) (*entity.Transaction, error) {
	if e.PaymentDate == nil {
		return nil, domainerror.ErrSourceDateMissing
	}
	date := *e.PaymentDate

	amount := e.TotalAmount.Abs().Neg()
	if e.Category == entity.ExpenseCategoryBiologicalAdjustment {
		amount = e.TotalAmount.Neg()
	}

	var (
		cashFlowDate  = &date
		cashFlowClass = operating()
	)
	if !e.ImpactsCash {
		cashFlowDate = nil
		cashFlowClass = nil
	}

	tx := entity.NewTransaction(
		date,
		e.Description,
		amount,
		e.Category.LedgerCategory(),
		e.ImpactsCash,
		cashFlowDate,
		cashFlowClass,
	)
	return tx.WithSource(entity.SourceExpense, e.ID).WithLinks(e.LotID, nil), nil
}

// mortalityTransaction maps a valued mortality record to a non-cash write-off.
func mortalityTransaction(m *entity.MortalityRecord) (*entity.Transaction, error) {
	if m.DeathDate.IsZero() {
		return nil, domainerror.ErrSourceDateMissing
	}

	tx := entity.NewTransaction(
		m.DeathDate,
		fmt.Sprintf("Mortality - %s", m.Cause),
		m.Loss().Neg(),
		entity.CategoryMortality,
		false,
		nil,
		nil,
	)
	lotID := m.LotID
	return tx.WithSource(entity.SourceMortality, m.ID).WithLinks(&lotID, m.PenID), nil
}

// freezeUnitCost values a mortality record at the lot's current cost per head,
// unless it was already valued.
func freezeUnitCost(m *entity.MortalityRecord, lot *entity.Lot, totals entity.LotCostTotals) bool {
	if m.UnitCost != nil {
		return false
	}
	unit := lot.UnitCost(lot.TotalCost(totals)).Round(4)
	m.UnitCost = &unit
	return true
}
