package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/domain/entity"
)

// PenModel represents the pens table in the database.
type PenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number    string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Capacity  int       `gorm:"not null"`
	IsActive  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the PenModel.
func (PenModel) TableName() string {
	return "pens"
}

// ToEntity converts a PenModel to a domain Pen entity.
func (m *PenModel) ToEntity() *entity.Pen {
	return &entity.Pen{
		ID:        m.ID,
		Number:    m.Number,
		Capacity:  m.Capacity,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// PenFromEntity creates a PenModel from a domain Pen entity.
func PenFromEntity(pen *entity.Pen) *PenModel {
	return &PenModel{
		ID:        pen.ID,
		Number:    pen.Number,
		Capacity:  pen.Capacity,
		IsActive:  pen.IsActive,
		CreatedAt: pen.CreatedAt,
		UpdatedAt: pen.UpdatedAt,
	}
}

// PenAllocationModel represents the pen_allocations table in the database.
type PenAllocationModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	LotID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	PenID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Quantity    int        `gorm:"not null"`
	EntryDate   time.Time  `gorm:"type:date;not null"`
	RemovalDate *time.Time `gorm:"type:date"`
	Status      string     `gorm:"type:varchar(16);not null;index"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for the PenAllocationModel.
func (PenAllocationModel) TableName() string {
	return "pen_allocations"
}

// ToEntity converts a PenAllocationModel to a domain PenAllocation entity.
func (m *PenAllocationModel) ToEntity() *entity.PenAllocation {
	return &entity.PenAllocation{
		ID:          m.ID,
		LotID:       m.LotID,
		PenID:       m.PenID,
		Quantity:    m.Quantity,
		EntryDate:   m.EntryDate.UTC(),
		RemovalDate: utcPtr(m.RemovalDate),
		Status:      entity.AllocationStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// PenAllocationFromEntity creates a PenAllocationModel from a domain PenAllocation entity.
func PenAllocationFromEntity(a *entity.PenAllocation) *PenAllocationModel {
	return &PenAllocationModel{
		ID:          a.ID,
		LotID:       a.LotID,
		PenID:       a.PenID,
		Quantity:    a.Quantity,
		EntryDate:   a.EntryDate,
		RemovalDate: a.RemovalDate,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// DailyCostAllocationModel represents the daily_cost_allocations table in the database.
// A lot has at most one row per date.
type DailyCostAllocationModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LotID              uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_daily_lot_date"`
	Date               time.Time       `gorm:"type:date;not null;uniqueIndex:idx_daily_lot_date;index"`
	Basis              string          `gorm:"type:varchar(16);not null"`
	BasisValue         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Percentage         decimal.Decimal `gorm:"type:decimal(9,6);not null"`
	FeedCost           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	LaborCost          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	InfrastructureCost decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	VeterinaryCost     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DirectHealthCost   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalCost          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for the DailyCostAllocationModel.
func (DailyCostAllocationModel) TableName() string {
	return "daily_cost_allocations"
}

// ToEntity converts a DailyCostAllocationModel to a domain DailyCostAllocation entity.
func (m *DailyCostAllocationModel) ToEntity() *entity.DailyCostAllocation {
	return &entity.DailyCostAllocation{
		ID:                 m.ID,
		LotID:              m.LotID,
		Date:               m.Date.UTC(),
		Basis:              entity.AllocationBasis(m.Basis),
		BasisValue:         m.BasisValue,
		Percentage:         m.Percentage,
		FeedCost:           m.FeedCost,
		LaborCost:          m.LaborCost,
		InfrastructureCost: m.InfrastructureCost,
		VeterinaryCost:     m.VeterinaryCost,
		DirectHealthCost:   m.DirectHealthCost,
		TotalCost:          m.TotalCost,
		CreatedAt:          m.CreatedAt,
	}
}

// DailyCostAllocationFromEntity creates a DailyCostAllocationModel from a domain DailyCostAllocation entity.
func DailyCostAllocationFromEntity(a *entity.DailyCostAllocation) *DailyCostAllocationModel {
	return &DailyCostAllocationModel{
		ID:                 a.ID,
		LotID:              a.LotID,
		Date:               a.Date,
		Basis:              string(a.Basis),
		BasisValue:         a.BasisValue,
		Percentage:         a.Percentage,
		FeedCost:           a.FeedCost,
		LaborCost:          a.LaborCost,
		InfrastructureCost: a.InfrastructureCost,
		VeterinaryCost:     a.VeterinaryCost,
		DirectHealthCost:   a.DirectHealthCost,
		TotalCost:          a.TotalCost,
		CreatedAt:          a.CreatedAt,
	}
}

// FeedPriceModel represents the feed_prices table in the database.
// The price in effect on a date is the latest one starting on or before it.
type FeedPriceModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EffectiveFrom time.Time       `gorm:"type:date;not null;uniqueIndex"`
	PricePerKg    decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the FeedPriceModel.
func (FeedPriceModel) TableName() string {
	return "feed_prices"
}
