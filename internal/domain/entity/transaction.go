// Package entity defines the core business entities for the domain layer.
package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionCategory classifies a ledger transaction.
type TransactionCategory string

const (
	CategoryCattleSales          TransactionCategory = "CATTLE_SALES"
	CategoryCattleAcquisition    TransactionCategory = "CATTLE_ACQUISITION"
	CategoryFeedCosts            TransactionCategory = "FEED_COSTS"
	CategoryVeterinaryCosts      TransactionCategory = "VETERINARY_COSTS"
	CategoryLaborCosts           TransactionCategory = "LABOR_COSTS"
	CategoryOperationalCosts     TransactionCategory = "OPERATIONAL_COSTS"
	CategoryAdministrative       TransactionCategory = "ADMINISTRATIVE"
	CategoryInfrastructure       TransactionCategory = "INFRASTRUCTURE"
	CategoryMortality            TransactionCategory = "MORTALITY"
	CategoryDepreciation         TransactionCategory = "DEPRECIATION"
	CategoryBiologicalAdjustment TransactionCategory = "BIOLOGICAL_ADJUSTMENT"
)

// IsValid checks if the category is one of the known ledger categories.
func (c TransactionCategory) IsValid() bool {
	switch c {
	case CategoryCattleSales, CategoryCattleAcquisition, CategoryFeedCosts,
		CategoryVeterinaryCosts, CategoryLaborCosts, CategoryOperationalCosts,
		CategoryAdministrative, CategoryInfrastructure, CategoryMortality,
		CategoryDepreciation, CategoryBiologicalAdjustment:
		return true
	}
	return false
}

// IsRevenue reports whether transactions of this category are revenues.
func (c TransactionCategory) IsRevenue() bool {
	return c == CategoryCattleSales
}

// CashFlowClass classifies a cash-impacting transaction for the cash-flow statement.
type CashFlowClass string

const (
	CashFlowOperating CashFlowClass = "OPERATING"
	CashFlowInvesting CashFlowClass = "INVESTING"
	CashFlowFinancing CashFlowClass = "FINANCING"
)

// SourceType identifies the kind of source record that produced a transaction.
type SourceType string

const (
	SourceRevenue   SourceType = "revenue"
	SourcePurchase  SourceType = "purchase"
	SourceExpense   SourceType = "expense"
	SourceMortality SourceType = "mortality"
)

// Transaction validation errors.
var (
	ErrTransactionSignMismatch     = errors.New("transaction amount sign does not match its category")
	ErrTransactionCashFlowDate     = errors.New("cash flow date must be set if and only if the transaction impacts cash")
	ErrTransactionInvalidCategory  = errors.New("invalid transaction category")
	ErrTransactionMissingReference = errors.New("transaction reference date is required")
)

// Transaction is one normalized entry of the integrated ledger.
// Amount is signed: positive for revenue, negative for costs.
type Transaction struct {
	ID            uuid.UUID
	ReferenceDate time.Time
	Description   string
	Amount        decimal.Decimal
	Category      TransactionCategory
	ImpactsCash   bool
	CashFlowDate  *time.Time
	CashFlowClass *CashFlowClass
	SourceType    SourceType
	SourceID      *uuid.UUID
	LotID         *uuid.UUID
	PenID         *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTransaction creates a new ledger Transaction.
func NewTransaction(
	referenceDate time.Time,
	description string,
	amount decimal.Decimal,
	category TransactionCategory,
	impactsCash bool,
	cashFlowDate *time.Time,
	cashFlowClass *CashFlowClass,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:            uuid.New(),
		ReferenceDate: referenceDate,
		Description:   description,
		Amount:        amount,
		Category:      category,
		ImpactsCash:   impactsCash,
		CashFlowDate:  cashFlowDate,
		CashFlowClass: cashFlowClass,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// WithSource tags the transaction with the record it was derived from.
func (t *Transaction) WithSource(sourceType SourceType, sourceID uuid.UUID) *Transaction {
	t.SourceType = sourceType
	t.SourceID = &sourceID
	return t
}

// WithLinks attaches the lot and pen the transaction is about. Either may be nil.
func (t *Transaction) WithLinks(lotID, penID *uuid.UUID) *Transaction {
	t.LotID = lotID
	t.PenID = penID
	return t
}

// Validate checks the ledger invariants of a single transaction.
func (t *Transaction) Validate() error {
	if t.ReferenceDate.IsZero() {
		return ErrTransactionMissingReference
	}
	if !t.Category.IsValid() {
		return ErrTransactionInvalidCategory
	}

	if t.Category.IsRevenue() && t.Amount.IsNegative() {
		return ErrTransactionSignMismatch
	}
	if !t.Category.IsRevenue() && t.Category != CategoryBiologicalAdjustment && t.Amount.IsPositive() {
		return ErrTransactionSignMismatch
	}

	if t.ImpactsCash != (t.CashFlowDate != nil) {
		return ErrTransactionCashFlowDate
	}

	return nil
}

// SameIdentity reports whether two transactions share the natural ledger key.
func (t *Transaction) SameIdentity(other *Transaction) bool {
	return t.ReferenceDate.Equal(other.ReferenceDate) &&
		t.Description == other.Description &&
		t.Amount.Equal(other.Amount) &&
		t.Category == other.Category
}

// TransactionFilter narrows a ledger listing.
type TransactionFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	Category    *TransactionCategory
	ImpactsCash *bool
	LotID       *uuid.UUID
}
