package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory is the closed set of categories an expense can be registered with.
type ExpenseCategory string

const (
	ExpenseCategoryFeed                 ExpenseCategory = "feed"
	ExpenseCategoryVeterinary           ExpenseCategory = "veterinary"
	ExpenseCategoryLabor                ExpenseCategory = "labor"
	ExpenseCategoryAdministrative       ExpenseCategory = "administrative"
	ExpenseCategoryInfrastructure       ExpenseCategory = "infrastructure"
	ExpenseCategoryFreight              ExpenseCategory = "freight"
	ExpenseCategoryOperational          ExpenseCategory = "operational"
	ExpenseCategoryDepreciation         ExpenseCategory = "depreciation"
	ExpenseCategoryBiologicalAdjustment ExpenseCategory = "biological_adjustment"
)

// ErrInvalidExpenseCategory is returned when an expense category is outside the known set.
var ErrInvalidExpenseCategory = errors.New("invalid expense category")

// ParseExpenseCategory validates a raw category value.
func ParseExpenseCategory(raw string) (ExpenseCategory, error) {
	c := ExpenseCategory(raw)
	switch c {
	case ExpenseCategoryFeed, ExpenseCategoryVeterinary, ExpenseCategoryLabor,
		ExpenseCategoryAdministrative, ExpenseCategoryInfrastructure, ExpenseCategoryFreight,
		ExpenseCategoryOperational, ExpenseCategoryDepreciation, ExpenseCategoryBiologicalAdjustment:
		return c, nil
	}
	return "", ErrInvalidExpenseCategory
}

// LedgerCategory maps the expense category to its ledger category.
func (c ExpenseCategory) LedgerCategory() TransactionCategory {
	switch c {
	case ExpenseCategoryFeed:
		return CategoryFeedCosts
	case ExpenseCategoryVeterinary:
		return CategoryVeterinaryCosts
	case ExpenseCategoryLabor:
		return CategoryLaborCosts
	case ExpenseCategoryAdministrative:
		return CategoryAdministrative
	case ExpenseCategoryInfrastructure:
		return CategoryInfrastructure
	case ExpenseCategoryDepreciation:
		return CategoryDepreciation
	case ExpenseCategoryBiologicalAdjustment:
		return CategoryBiologicalAdjustment
	case ExpenseCategoryFreight, ExpenseCategoryOperational:
		return CategoryOperationalCosts
	}
	return CategoryOperationalCosts
}

// CostBucket maps the expense category to the lot cost bucket it feeds.
func (c ExpenseCategory) CostBucket() CostBucket {
	switch c {
	case ExpenseCategoryFeed:
		return CostBucketFeed
	case ExpenseCategoryVeterinary:
		return CostBucketHealth
	case ExpenseCategoryLabor:
		return CostBucketLabor
	case ExpenseCategoryInfrastructure:
		return CostBucketInfrastructure
	case ExpenseCategoryFreight:
		return CostBucketFreight
	}
	return CostBucketOther
}

// Expense is a cost registered against the operation, optionally tied to a lot.
type Expense struct {
	ID          uuid.UUID
	Description string
	Category    ExpenseCategory
	TotalAmount decimal.Decimal // positive magnitude
	DueDate     time.Time
	PaymentDate *time.Time
	IsPaid      bool
	ImpactsCash bool
	LotID       *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewExpense creates a new unpaid Expense.
func NewExpense(description string, category ExpenseCategory, amount decimal.Decimal, dueDate time.Time, impactsCash bool, lotID *uuid.UUID) *Expense {
	now := time.Now().UTC()

	return &Expense{
		ID:          uuid.New(),
		Description: description,
		Category:    category,
		TotalAmount: amount,
		DueDate:     dueDate,
		ImpactsCash: impactsCash,
		LotID:       lotID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MarkPaid settles the expense on the given date.
func (e *Expense) MarkPaid(date time.Time) {
	e.IsPaid = true
	e.PaymentDate = &date
	e.UpdatedAt = time.Now().UTC()
}

// Revenue is an income record, usually produced by a cattle sale.
type Revenue struct {
	ID          uuid.UUID
	Description string
	TotalAmount decimal.Decimal
	DueDate     time.Time
	ReceiptDate *time.Time
	IsReceived  bool
	LotID       *uuid.UUID
	SaleID      *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRevenue creates a new pending Revenue.
func NewRevenue(description string, amount decimal.Decimal, dueDate time.Time, lotID *uuid.UUID) *Revenue {
	now := time.Now().UTC()

	return &Revenue{
		ID:          uuid.New(),
		Description: description,
		TotalAmount: amount,
		DueDate:     dueDate,
		LotID:       lotID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MarkReceived settles the revenue on the given date.
func (r *Revenue) MarkReceived(date time.Time) {
	r.IsReceived = true
	r.ReceiptDate = &date
	r.UpdatedAt = time.Now().UTC()
}

// MortalityRecord registers deaths within a lot.
// UnitCost is frozen the first time the record is valued.
type MortalityRecord struct {
	ID        uuid.UUID
	LotID     uuid.UUID
	PenID     *uuid.UUID
	Quantity  int
	DeathDate time.Time
	Cause     string
	UnitCost  *decimal.Decimal
	CreatedAt time.Time
}

// NewMortalityRecord creates a new MortalityRecord.
func NewMortalityRecord(lotID uuid.UUID, penID *uuid.UUID, quantity int, deathDate time.Time, cause string) *MortalityRecord {
	return &MortalityRecord{
		ID:        uuid.New(),
		LotID:     lotID,
		PenID:     penID,
		Quantity:  quantity,
		DeathDate: deathDate,
		Cause:     cause,
		CreatedAt: time.Now().UTC(),
	}
}

// Loss returns the valued loss of the record, zero when not yet valued.
func (m *MortalityRecord) Loss() decimal.Decimal {
	if m.UnitCost == nil {
		return decimal.Zero
	}
	return m.UnitCost.Mul(decimal.NewFromInt(int64(m.Quantity))).Round(2)
}

// SaleStatus represents the state of a sale.
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// Sale records head sold out of a lot.
type Sale struct {
	ID          uuid.UUID
	LotID       uuid.UUID
	Quantity    int
	TotalAmount decimal.Decimal
	SaleDate    time.Time
	Status      SaleStatus
	CreatedAt   time.Time
}

// NewSale creates a completed Sale.
func NewSale(lotID uuid.UUID, quantity int, amount decimal.Decimal, saleDate time.Time) *Sale {
	return &Sale{
		ID:          uuid.New(),
		LotID:       lotID,
		Quantity:    quantity,
		TotalAmount: amount,
		SaleDate:    saleDate,
		Status:      SaleStatusCompleted,
		CreatedAt:   time.Now().UTC(),
	}
}

// Contribution is a partner capital contribution, a cash inflow.
type Contribution struct {
	ID          uuid.UUID
	PartnerName string
	Amount      decimal.Decimal
	Date        time.Time
	CreatedAt   time.Time
}

// NewContribution creates a new Contribution.
func NewContribution(partnerName string, amount decimal.Decimal, date time.Time) *Contribution {
	return &Contribution{
		ID:          uuid.New(),
		PartnerName: partnerName,
		Amount:      amount,
		Date:        date,
		CreatedAt:   time.Now().UTC(),
	}
}

// HealthIntervention is a treatment applied to one lot, charged directly to it.
type HealthIntervention struct {
	ID          uuid.UUID
	LotID       uuid.UUID
	Description string
	Cost        decimal.Decimal
	AppliedOn   time.Time
	CreatedAt   time.Time
}

// NewHealthIntervention creates a new HealthIntervention.
func NewHealthIntervention(lotID uuid.UUID, description string, cost decimal.Decimal, appliedOn time.Time) *HealthIntervention {
	return &HealthIntervention{
		ID:          uuid.New(),
		LotID:       lotID,
		Description: description,
		Cost:        cost,
		AppliedOn:   appliedOn,
		CreatedAt:   time.Now().UTC(),
	}
}
