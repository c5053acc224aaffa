package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotStatus represents the lifecycle stage of a cattle lot.
type LotStatus string

const (
	LotStatusPending   LotStatus = "pending"
	LotStatusConfirmed LotStatus = "confirmed"
	LotStatusReceived  LotStatus = "received"
	LotStatusConfined  LotStatus = "confined"
	LotStatusSold      LotStatus = "sold"
	LotStatusCancelled LotStatus = "cancelled"
)

// IsValid checks if the status is a known lot status.
func (s LotStatus) IsValid() bool {
	switch s {
	case LotStatusPending, LotStatusConfirmed, LotStatusReceived,
		LotStatusConfined, LotStatusSold, LotStatusCancelled:
		return true
	}
	return false
}

var lotTransitions = map[LotStatus][]LotStatus{
	LotStatusPending:   {LotStatusConfirmed, LotStatusCancelled},
	LotStatusConfirmed: {LotStatusReceived, LotStatusCancelled},
	LotStatusReceived:  {LotStatusConfined, LotStatusCancelled},
	LotStatusConfined:  {LotStatusSold},
}

// CanTransitionTo reports whether a lot may move from s to next.
func (s LotStatus) CanTransitionTo(next LotStatus) bool {
	for _, allowed := range lotTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Lot represents a group of cattle purchased together and tracked as one cost unit.
type Lot struct {
	ID              uuid.UUID
	Code            string
	Status          LotStatus
	InitialQuantity int
	CurrentQuantity int
	EntryWeight     decimal.Decimal // total kg at entry
	CurrentWeight   decimal.Decimal // total kg, latest estimate
	AcquisitionCost decimal.Decimal
	PurchaseDate    *time.Time
	ReceivedAt      *time.Time
	ConfinedAt      *time.Time
	ClosedAt        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewLot creates a new Lot in pending status.
func NewLot(code string, quantity int, entryWeight, acquisitionCost decimal.Decimal, purchaseDate *time.Time) *Lot {
	now := time.Now().UTC()

	return &Lot{
		ID:              uuid.New(),
		Code:            code,
		Status:          LotStatusPending,
		InitialQuantity: quantity,
		CurrentQuantity: quantity,
		EntryWeight:     entryWeight,
		CurrentWeight:   entryWeight,
		AcquisitionCost: acquisitionCost,
		PurchaseDate:    purchaseDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsActive reports whether the lot is physically on the farm and accrues daily costs.
func (l *Lot) IsActive() bool {
	return l.Status == LotStatusConfined
}

// UnitCost returns totalCost divided by the initial head count.
// Zero is returned for a lot without head.
func (l *Lot) UnitCost(totalCost decimal.Decimal) decimal.Decimal {
	if l.InitialQuantity <= 0 {
		return decimal.Zero
	}
	return totalCost.Div(decimal.NewFromInt(int64(l.InitialQuantity)))
}

// CostBucket is a cost accumulator of a lot.
type CostBucket string

const (
	CostBucketFeed           CostBucket = "feed"
	CostBucketHealth         CostBucket = "health"
	CostBucketLabor          CostBucket = "labor"
	CostBucketInfrastructure CostBucket = "infrastructure"
	CostBucketFreight        CostBucket = "freight"
	CostBucketOther          CostBucket = "other"
)

// CostEventSource identifies what produced a lot cost event.
type CostEventSource string

const (
	CostSourceDailyAllocation CostEventSource = "daily_allocation"
	CostSourceExpense         CostEventSource = "expense"
)

// LotCostEvent is one append-only entry of a lot's cost history.
type LotCostEvent struct {
	ID         uuid.UUID
	LotID      uuid.UUID
	Bucket     CostBucket
	Amount     decimal.Decimal
	Source     CostEventSource
	SourceID   *uuid.UUID
	OccurredOn time.Time
	CreatedAt  time.Time
}

// NewLotCostEvent creates a new cost event for a lot.
func NewLotCostEvent(lotID uuid.UUID, bucket CostBucket, amount decimal.Decimal, source CostEventSource, sourceID *uuid.UUID, occurredOn time.Time) *LotCostEvent {
	return &LotCostEvent{
		ID:         uuid.New(),
		LotID:      lotID,
		Bucket:     bucket,
		Amount:     amount,
		Source:     source,
		SourceID:   sourceID,
		OccurredOn: occurredOn,
		CreatedAt:  time.Now().UTC(),
	}
}

// LotCostTotals holds the per-bucket sums of a lot's cost events.
type LotCostTotals struct {
	Feed           decimal.Decimal
	Health         decimal.Decimal
	Labor          decimal.Decimal
	Infrastructure decimal.Decimal
	Freight        decimal.Decimal
	Other          decimal.Decimal
}

// Add accumulates an event into the matching bucket.
func (t *LotCostTotals) Add(bucket CostBucket, amount decimal.Decimal) {
	switch bucket {
	case CostBucketFeed:
		t.Feed = t.Feed.Add(amount)
	case CostBucketHealth:
		t.Health = t.Health.Add(amount)
	case CostBucketLabor:
		t.Labor = t.Labor.Add(amount)
	case CostBucketInfrastructure:
		t.Infrastructure = t.Infrastructure.Add(amount)
	case CostBucketFreight:
		t.Freight = t.Freight.Add(amount)
	default:
		t.Other = t.Other.Add(amount)
	}
}

// Operational returns the sum of every bucket.
func (t LotCostTotals) Operational() decimal.Decimal {
	return t.Feed.Add(t.Health).Add(t.Labor).Add(t.Infrastructure).Add(t.Freight).Add(t.Other)
}

// TotalCost returns the lot's acquisition cost plus its accumulated operational costs.
func (l *Lot) TotalCost(totals LotCostTotals) decimal.Decimal {
	return l.AcquisitionCost.Add(totals.Operational())
}
