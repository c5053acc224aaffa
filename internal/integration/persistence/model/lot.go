package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/domain/entity"
)

// LotModel represents the lots table in the database.
type LotModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code            string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status          string          `gorm:"type:varchar(16);not null;index"`
	InitialQuantity int             `gorm:"not null"`
	CurrentQuantity int             `gorm:"not null"`
	EntryWeight     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CurrentWeight   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	AcquisitionCost decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PurchaseDate    *time.Time      `gorm:"type:date;index"`
	ReceivedAt      *time.Time      `gorm:"type:date"`
	ConfinedAt      *time.Time      `gorm:"type:date"`
	ClosedAt        *time.Time      `gorm:"type:date"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the LotModel.
func (LotModel) TableName() string {
	return "lots"
}

// ToEntity converts a LotModel to a domain Lot entity.
func (m *LotModel) ToEntity() *entity.Lot {
	return &entity.Lot{
		ID:              m.ID,
		Code:            m.Code,
		Status:          entity.LotStatus(m.Status),
		InitialQuantity: m.InitialQuantity,
		CurrentQuantity: m.CurrentQuantity,
		EntryWeight:     m.EntryWeight,
		CurrentWeight:   m.CurrentWeight,
		AcquisitionCost: m.AcquisitionCost,
		PurchaseDate:    utcPtr(m.PurchaseDate),
		ReceivedAt:      utcPtr(m.ReceivedAt),
		ConfinedAt:      utcPtr(m.ConfinedAt),
		ClosedAt:        utcPtr(m.ClosedAt),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// LotFromEntity creates a LotModel from a domain Lot entity.
func LotFromEntity(lot *entity.Lot) *LotModel {
	return &LotModel{
		ID:              lot.ID,
		Code:            lot.Code,
		Status:          string(lot.Status),
		InitialQuantity: lot.InitialQuantity,
		CurrentQuantity: lot.CurrentQuantity,
		EntryWeight:     lot.EntryWeight,
		CurrentWeight:   lot.CurrentWeight,
		AcquisitionCost: lot.AcquisitionCost,
		PurchaseDate:    lot.PurchaseDate,
		ReceivedAt:      lot.ReceivedAt,
		ConfinedAt:      lot.ConfinedAt,
		ClosedAt:        lot.ClosedAt,
		CreatedAt:       lot.CreatedAt,
		UpdatedAt:       lot.UpdatedAt,
	}
}

// LotCostEventModel represents the lot_cost_events table in the database.
type LotCostEventModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LotID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Bucket     string          `gorm:"type:varchar(16);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Source     string          `gorm:"type:varchar(32);not null;index:idx_cost_event_source"`
	SourceID   *uuid.UUID      `gorm:"type:uuid"`
	OccurredOn time.Time       `gorm:"type:date;not null;index:idx_cost_event_source"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for the LotCostEventModel.
func (LotCostEventModel) TableName() string {
	return "lot_cost_events"
}

// ToEntity converts a LotCostEventModel to a domain LotCostEvent entity.
func (m *LotCostEventModel) ToEntity() *entity.LotCostEvent {
	return &entity.LotCostEvent{
		ID:         m.ID,
		LotID:      m.LotID,
		Bucket:     entity.CostBucket(m.Bucket),
		Amount:     m.Amount,
		Source:     entity.CostEventSource(m.Source),
		SourceID:   m.SourceID,
		OccurredOn: m.OccurredOn.UTC(),
		CreatedAt:  m.CreatedAt,
	}
}

// LotCostEventFromEntity creates a LotCostEventModel from a domain LotCostEvent entity.
func LotCostEventFromEntity(e *entity.LotCostEvent) *LotCostEventModel {
	return &LotCostEventModel{
		ID:         e.ID,
		LotID:      e.LotID,
		Bucket:     string(e.Bucket),
		Amount:     e.Amount,
		Source:     string(e.Source),
		SourceID:   e.SourceID,
		OccurredOn: e.OccurredOn,
		CreatedAt:  e.CreatedAt,
	}
}
