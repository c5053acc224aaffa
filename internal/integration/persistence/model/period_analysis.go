package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/boi-gordo/backend/internal/domain/entity"
)

// StringList is a text array column. Postgres stores it natively; other
// dialects keep the array literal in a text column.
type StringList pq.StringArray

// GormDataType implements schema.GormDataTypeInterface.
func (StringList) GormDataType() string {
	return "text"
}

// GormDBDataType implements gorm.GormDataTypeInterface.
func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	return (*pq.StringArray)(l).Scan(src)
}

// PeriodAnalysisModel represents the period_analyses table in the database.
type PeriodAnalysisModel struct {
	ID                       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReferenceMonth           string          `gorm:"type:varchar(7);not null;uniqueIndex"`
	Year                     int             `gorm:"not null;index"`
	TotalRevenue             decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalExpenses            decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	NetIncome                decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CashReceipts             decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CashPayments             decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	NetCashFlow              decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	NonCashItems             decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Depreciation             decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	MortalityLoss            decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	BiologicalAdjustments    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	OtherNonCash             decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	ReconciliationDifference decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TransactionCount         int             `gorm:"not null;default:0"`
	Warnings                 StringList
	CreatedAt                time.Time `gorm:"not null"`
	UpdatedAt                time.Time `gorm:"not null"`
}

// TableName returns the table name for the PeriodAnalysisModel.
func (PeriodAnalysisModel) TableName() string {
	return "period_analyses"
}

// ToEntity converts a PeriodAnalysisModel to a domain PeriodAnalysis entity.
func (m *PeriodAnalysisModel) ToEntity() *entity.PeriodAnalysis {
	warnings := make([]string, len(m.Warnings))
	copy(warnings, m.Warnings)

	return &entity.PeriodAnalysis{
		ID:                       m.ID,
		ReferenceMonth:           m.ReferenceMonth,
		Year:                     m.Year,
		TotalRevenue:             m.TotalRevenue,
		TotalExpenses:            m.TotalExpenses,
		NetIncome:                m.NetIncome,
		CashReceipts:             m.CashReceipts,
		CashPayments:             m.CashPayments,
		NetCashFlow:              m.NetCashFlow,
		NonCashItems:             m.NonCashItems,
		Depreciation:             m.Depreciation,
		MortalityLoss:            m.MortalityLoss,
		BiologicalAdjustments:    m.BiologicalAdjustments,
		OtherNonCash:             m.OtherNonCash,
		ReconciliationDifference: m.ReconciliationDifference,
		TransactionCount:         m.TransactionCount,
		Warnings:                 warnings,
		CreatedAt:                m.CreatedAt,
		UpdatedAt:                m.UpdatedAt,
	}
}

// PeriodAnalysisFromEntity creates a PeriodAnalysisModel from a domain PeriodAnalysis entity.
func PeriodAnalysisFromEntity(a *entity.PeriodAnalysis) *PeriodAnalysisModel {
	warnings := make(StringList, len(a.Warnings))
	copy(warnings, a.Warnings)

	return &PeriodAnalysisModel{
		ID:                       a.ID,
		ReferenceMonth:           a.ReferenceMonth,
		Year:                     a.Year,
		TotalRevenue:             a.TotalRevenue,
		TotalExpenses:            a.TotalExpenses,
		NetIncome:                a.NetIncome,
		CashReceipts:             a.CashReceipts,
		CashPayments:             a.CashPayments,
		NetCashFlow:              a.NetCashFlow,
		NonCashItems:             a.NonCashItems,
		Depreciation:             a.Depreciation,
		MortalityLoss:            a.MortalityLoss,
		BiologicalAdjustments:    a.BiologicalAdjustments,
		OtherNonCash:             a.OtherNonCash,
		ReconciliationDifference: a.ReconciliationDifference,
		TransactionCount:         a.TransactionCount,
		Warnings:                 warnings,
		CreatedAt:                a.CreatedAt,
		UpdatedAt:                a.UpdatedAt,
	}
}
