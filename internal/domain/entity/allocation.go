package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationBasis selects how shared daily costs are split across active lots.
type AllocationBasis string

const (
	AllocationBasisWeight    AllocationBasis = "weight"
	AllocationBasisHeadCount AllocationBasis = "head_count"
	AllocationBasisDays      AllocationBasis = "days"
)

// IsValid checks if the basis is supported.
func (b AllocationBasis) IsValid() bool {
	return b == AllocationBasisWeight || b == AllocationBasisHeadCount || b == AllocationBasisDays
}

// DailyRates holds the farm-wide shared cost totals for one day.
type DailyRates struct {
	Labor          decimal.Decimal
	Infrastructure decimal.Decimal
	Veterinary     decimal.Decimal
	FeedPricePerKg *decimal.Decimal
}

// DailyCostAllocation is the persisted cost attributed to one lot on one date.
type DailyCostAllocation struct {
	ID                 uuid.UUID
	LotID              uuid.UUID
	Date               time.Time
	Basis              AllocationBasis
	BasisValue         decimal.Decimal
	Percentage         decimal.Decimal // share of the farm total, 0..1
	FeedCost           decimal.Decimal
	LaborCost          decimal.Decimal
	InfrastructureCost decimal.Decimal
	VeterinaryCost     decimal.Decimal
	DirectHealthCost   decimal.Decimal
	TotalCost          decimal.Decimal
	CreatedAt          time.Time
}

// NewDailyCostAllocation creates an allocation row and computes its total.
func NewDailyCostAllocation(
	lotID uuid.UUID,
	date time.Time,
	basis AllocationBasis,
	basisValue, percentage, feed, labor, infra, vet, health decimal.Decimal,
) *DailyCostAllocation {
	return &DailyCostAllocation{
		ID:                 uuid.New(),
		LotID:              lotID,
		Date:               date,
		Basis:              basis,
		BasisValue:         basisValue,
		Percentage:         percentage,
		FeedCost:           feed,
		LaborCost:          labor,
		InfrastructureCost: infra,
		VeterinaryCost:     vet,
		DirectHealthCost:   health,
		TotalCost:          feed.Add(labor).Add(infra).Add(vet).Add(health),
		CreatedAt:          time.Now().UTC(),
	}
}

// CostEvents expands the allocation into the lot cost events it contributes.
// Zero amounts produce no event.
func (a *DailyCostAllocation) CostEvents() []*LotCostEvent {
	parts := []struct {
		bucket CostBucket
		amount decimal.Decimal
	}{
		{CostBucketFeed, a.FeedCost},
		{CostBucketLabor, a.LaborCost},
		{CostBucketInfrastructure, a.InfrastructureCost},
		{CostBucketHealth, a.VeterinaryCost.Add(a.DirectHealthCost)},
	}

	events := make([]*LotCostEvent, 0, len(parts))
	for _, p := range parts {
		if p.amount.IsZero() {
			continue
		}
		id := a.ID
		events = append(events, NewLotCostEvent(a.LotID, p.bucket, p.amount, CostSourceDailyAllocation, &id, a.Date))
	}
	return events
}
