package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/domain/entity"
)

// RevenueModel represents the revenues table in the database.
type RevenueModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Description string          `gorm:"type:varchar(255);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DueDate     time.Time       `gorm:"type:date;not null"`
	ReceiptDate *time.Time      `gorm:"type:date;index"`
	IsReceived  bool            `gorm:"not null;default:false"`
	LotID       *uuid.UUID      `gorm:"type:uuid;index"`
	SaleID      *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the RevenueModel.
func (RevenueModel) TableName() string {
	return "revenues"
}

// ToEntity converts a RevenueModel to a domain Revenue entity.
func (m *RevenueModel) ToEntity() *entity.Revenue {
	return &entity.Revenue{
		ID:          m.ID,
		Description: m.Description,
		TotalAmount: m.TotalAmount,
		DueDate:     m.DueDate.UTC(),
		ReceiptDate: utcPtr(m.ReceiptDate),
		IsReceived:  m.IsReceived,
		LotID:       m.LotID,
		SaleID:      m.SaleID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// RevenueFromEntity creates a RevenueModel from a domain Revenue entity.
func RevenueFromEntity(r *entity.Revenue) *RevenueModel {
	return &RevenueModel{
		ID:          r.ID,
		Description: r.Description,
		TotalAmount: r.TotalAmount,
		DueDate:     r.DueDate,
		ReceiptDate: r.ReceiptDate,
		IsReceived:  r.IsReceived,
		LotID:       r.LotID,
		SaleID:      r.SaleID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ExpenseModel represents the expenses table in the database.
type ExpenseModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Description string          `gorm:"type:varchar(255);not null"`
	Category    string          `gorm:"type:varchar(32);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DueDate     time.Time       `gorm:"type:date;not null"`
	PaymentDate *time.Time      `gorm:"type:date;index"`
	IsPaid      bool            `gorm:"not null;default:false"`
	ImpactsCash bool            `gorm:"not null"`
	LotID       *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the ExpenseModel.
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToEntity converts an ExpenseModel to a domain Expense entity.
func (m *ExpenseModel) ToEntity() *entity.Expense {
	return &entity.Expense{
		ID:          m.ID,
		Description: m.Description,
		Category:    entity.ExpenseCategory(m.Category),
		TotalAmount: m.TotalAmount,
		DueDate:     m.DueDate.UTC(),
		PaymentDate: utcPtr(m.PaymentDate),
		IsPaid:      m.IsPaid,
		ImpactsCash: m.ImpactsCash,
		LotID:       m.LotID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ExpenseFromEntity creates an ExpenseModel from a domain Expense entity.
func ExpenseFromEntity(e *entity.Expense) *ExpenseModel {
	return &ExpenseModel{
		ID:          e.ID,
		Description: e.Description,
		Category:    string(e.Category),
		TotalAmount: e.TotalAmount,
		DueDate:     e.DueDate,
		PaymentDate: e.PaymentDate,
		IsPaid:      e.IsPaid,
		ImpactsCash: e.ImpactsCash,
		LotID:       e.LotID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// MortalityRecordModel represents the mortality_records table in the database.
type MortalityRecordModel struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey"`
	LotID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	PenID     *uuid.UUID       `gorm:"type:uuid"`
	Quantity  int              `gorm:"not null"`
	DeathDate time.Time        `gorm:"type:date;not null;index"`
	Cause     string           `gorm:"type:varchar(100)"`
	UnitCost  *decimal.Decimal `gorm:"type:decimal(15,4)"`
	CreatedAt time.Time        `gorm:"not null"`
}

// TableName returns the table name for the MortalityRecordModel.
func (MortalityRecordModel) TableName() string {
	return "mortality_records"
}

// ToEntity converts a MortalityRecordModel to a domain MortalityRecord entity.
func (m *MortalityRecordModel) ToEntity() *entity.MortalityRecord {
	return &entity.MortalityRecord{
		ID:        m.ID,
		LotID:     m.LotID,
		PenID:     m.PenID,
		Quantity:  m.Quantity,
		DeathDate: m.DeathDate.UTC(),
		Cause:     m.Cause,
		UnitCost:  m.UnitCost,
		CreatedAt: m.CreatedAt,
	}
}

// MortalityRecordFromEntity creates a MortalityRecordModel from a domain MortalityRecord entity.
func MortalityRecordFromEntity(r *entity.MortalityRecord) *MortalityRecordModel {
	return &MortalityRecordModel{
		ID:        r.ID,
		LotID:     r.LotID,
		PenID:     r.PenID,
		Quantity:  r.Quantity,
		DeathDate: r.DeathDate,
		Cause:     r.Cause,
		UnitCost:  r.UnitCost,
		CreatedAt: r.CreatedAt,
	}
}

// SaleModel represents the sales table in the database.
type SaleModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LotID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity    int             `gorm:"not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	SaleDate    time.Time       `gorm:"type:date;not null"`
	Status      string          `gorm:"type:varchar(16);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the SaleModel.
func (SaleModel) TableName() string {
	return "sales"
}

// ToEntity converts a SaleModel to a domain Sale entity.
func (m *SaleModel) ToEntity() *entity.Sale {
	return &entity.Sale{
		ID:          m.ID,
		LotID:       m.LotID,
		Quantity:    m.Quantity,
		TotalAmount: m.TotalAmount,
		SaleDate:    m.SaleDate.UTC(),
		Status:      entity.SaleStatus(m.Status),
		CreatedAt:   m.CreatedAt,
	}
}

// SaleFromEntity creates a SaleModel from a domain Sale entity.
func SaleFromEntity(s *entity.Sale) *SaleModel {
	return &SaleModel{
		ID:          s.ID,
		LotID:       s.LotID,
		Quantity:    s.Quantity,
		TotalAmount: s.TotalAmount,
		SaleDate:    s.SaleDate,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
	}
}

// ContributionModel represents the contributions table in the database.
type ContributionModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PartnerName string          `gorm:"type:varchar(255);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Date        time.Time       `gorm:"type:date;not null;index"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the ContributionModel.
func (ContributionModel) TableName() string {
	return "contributions"
}

// ToEntity converts a ContributionModel to a domain Contribution entity.
func (m *ContributionModel) ToEntity() *entity.Contribution {
	return &entity.Contribution{
		ID:          m.ID,
		PartnerName: m.PartnerName,
		Amount:      m.Amount,
		Date:        m.Date.UTC(),
		CreatedAt:   m.CreatedAt,
	}
}

// ContributionFromEntity creates a ContributionModel from a domain Contribution entity.
func ContributionFromEntity(c *entity.Contribution) *ContributionModel {
	return &ContributionModel{
		ID:          c.ID,
		PartnerName: c.PartnerName,
		Amount:      c.Amount,
		Date:        c.Date,
		CreatedAt:   c.CreatedAt,
	}
}

// HealthInterventionModel represents the health_interventions table in the database.
type HealthInterventionModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LotID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(255);not null"`
	Cost        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	AppliedOn   time.Time       `gorm:"type:date;not null;index"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the HealthInterventionModel.
func (HealthInterventionModel) TableName() string {
	return "health_interventions"
}

// ToEntity converts a HealthInterventionModel to a domain HealthIntervention entity.
func (m *HealthInterventionModel) ToEntity() *entity.HealthIntervention {
	return &entity.HealthIntervention{
		ID:          m.ID,
		LotID:       m.LotID,
		Description: m.Description,
		Cost:        m.Cost,
		AppliedOn:   m.AppliedOn.UTC(),
		CreatedAt:   m.CreatedAt,
	}
}

// HealthInterventionFromEntity creates a HealthInterventionModel from a domain HealthIntervention entity.
func HealthInterventionFromEntity(h *entity.HealthIntervention) *HealthInterventionModel {
	return &HealthInterventionModel{
		ID:          h.ID,
		LotID:       h.LotID,
		Description: h.Description,
		Cost:        h.Cost,
		AppliedOn:   h.AppliedOn,
		CreatedAt:   h.CreatedAt,
	}
}
