package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pen is a physical enclosure with a head capacity.
type Pen struct {
	ID        uuid.UUID
	Number    string
	Capacity  int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPen creates a new active Pen.
func NewPen(number string, capacity int) *Pen {
	now := time.Now().UTC()

	return &Pen{
		ID:        uuid.New(),
		Number:    number,
		Capacity:  capacity,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetActive opens or closes the pen for new placements.
func (p *Pen) SetActive(active bool) {
	p.IsActive = active
	p.UpdatedAt = time.Now().UTC()
}

// AllocationStatus represents the state of a lot-in-pen allocation.
type AllocationStatus string

const (
	AllocationStatusActive  AllocationStatus = "active"
	AllocationStatusRemoved AllocationStatus = "removed"
)

// PenAllocation records how many head of a lot occupy a pen.
// Percentages are derived on read and are not stored.
type PenAllocation struct {
	ID          uuid.UUID
	LotID       uuid.UUID
	PenID       uuid.UUID
	Quantity    int
	EntryDate   time.Time
	RemovalDate *time.Time
	Status      AllocationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPenAllocation creates an active allocation.
func NewPenAllocation(lotID, penID uuid.UUID, quantity int, entryDate time.Time) *PenAllocation {
	now := time.Now().UTC()

	return &PenAllocation{
		ID:        uuid.New(),
		LotID:     lotID,
		PenID:     penID,
		Quantity:  quantity,
		EntryDate: entryDate,
		Status:    AllocationStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive reports whether the allocation still occupies its pen.
func (a *PenAllocation) IsActive() bool {
	return a.Status == AllocationStatusActive
}

// Close soft-closes the allocation on the given date.
func (a *PenAllocation) Close(date time.Time) {
	a.Status = AllocationStatusRemoved
	a.RemovalDate = &date
	a.UpdatedAt = time.Now().UTC()
}

// PercentageOfLot returns quantity / lot head count * 100.
func (a *PenAllocation) PercentageOfLot(lotQuantity int) decimal.Decimal {
	return percentage(a.Quantity, lotQuantity)
}

// PercentageOfPen returns quantity / pen capacity * 100.
func (a *PenAllocation) PercentageOfPen(capacity int) decimal.Decimal {
	return percentage(a.Quantity, capacity)
}

func percentage(part, whole int) decimal.Decimal {
	if whole <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(2)
}
