// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/domain/entity"
)

// TransactionModel represents the ledger_transactions table in the database.
type TransactionModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReferenceDate time.Time       `gorm:"type:date;not null;index"`
	Description   string          `gorm:"type:varchar(255);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Category      string          `gorm:"type:varchar(32);not null;index"`
	ImpactsCash   bool            `gorm:"not null;default:false"`
	CashFlowDate  *time.Time      `gorm:"type:date"`
	CashFlowClass *string         `gorm:"type:varchar(16)"`
	SourceType    string          `gorm:"type:varchar(16);index:idx_ledger_source"`
	SourceID      *uuid.UUID      `gorm:"type:uuid;index:idx_ledger_source"`
	LotID         *uuid.UUID      `gorm:"type:uuid;index"`
	PenID         *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "ledger_transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	var class *entity.CashFlowClass
	if m.CashFlowClass != nil {
		c := entity.CashFlowClass(*m.CashFlowClass)
		class = &c
	}

	return &entity.Transaction{
		ID:            m.ID,
		ReferenceDate: m.ReferenceDate.UTC(),
		Description:   m.Description,
		Amount:        m.Amount,
		Category:      entity.TransactionCategory(m.Category),
		ImpactsCash:   m.ImpactsCash,
		CashFlowDate:  utcPtr(m.CashFlowDate),
		CashFlowClass: class,
		SourceType:    entity.SourceType(m.SourceType),
		SourceID:      m.SourceID,
		LotID:         m.LotID,
		PenID:         m.PenID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	var class *string
	if transaction.CashFlowClass != nil {
		c := string(*transaction.CashFlowClass)
		class = &c
	}

	return &TransactionModel{
		ID:            transaction.ID,
		ReferenceDate: transaction.ReferenceDate,
		Description:   transaction.Description,
		Amount:        transaction.Amount,
		Category:      string(transaction.Category),
		ImpactsCash:   transaction.ImpactsCash,
		CashFlowDate:  transaction.CashFlowDate,
		CashFlowClass: class,
		SourceType:    string(transaction.SourceType),
		SourceID:      transaction.SourceID,
		LotID:         transaction.LotID,
		PenID:         transaction.PenID,
		CreatedAt:     transaction.CreatedAt,
		UpdatedAt:     transaction.UpdatedAt,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
