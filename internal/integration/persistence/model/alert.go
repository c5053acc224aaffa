package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/boi-gordo/backend/internal/domain/entity"
)

// AlertModel represents the alert_outbox table in the database.
type AlertModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Kind          string         `gorm:"type:varchar(50);not null;index:idx_alert_subject"`
	Reference     string         `gorm:"type:varchar(100);not null;index:idx_alert_subject"`
	Recipient     string         `gorm:"type:varchar(255);not null"`
	Subject       string         `gorm:"type:varchar(500);not null"`
	Payload       map[string]any `gorm:"type:text;serializer:json"`
	Status        string         `gorm:"type:varchar(20);not null;index:idx_alert_due"`
	Occurrences   int            `gorm:"not null;default:1"`
	Attempts      int            `gorm:"not null;default:0"`
	MaxAttempts   int            `gorm:"not null"`
	LastError     string         `gorm:"type:text"`
	ProviderID    string         `gorm:"type:varchar(255)"`
	NextAttemptAt time.Time      `gorm:"not null;index:idx_alert_due"`
	FinishedAt    *time.Time
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the AlertModel.
func (AlertModel) TableName() string {
	return "alert_outbox"
}

// ToEntity converts an AlertModel to a domain Alert entity.
func (m *AlertModel) ToEntity() *entity.Alert {
	payload := m.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return &entity.Alert{
		ID:            m.ID,
		Kind:          entity.AlertKind(m.Kind),
		Reference:     m.Reference,
		Recipient:     m.Recipient,
		Subject:       m.Subject,
		Payload:       payload,
		Status:        entity.AlertStatus(m.Status),
		Occurrences:   m.Occurrences,
		Attempts:      m.Attempts,
		MaxAttempts:   m.MaxAttempts,
		LastError:     m.LastError,
		ProviderID:    m.ProviderID,
		CreatedAt:     m.CreatedAt.UTC(),
		NextAttemptAt: m.NextAttemptAt.UTC(),
		FinishedAt:    utcPtr(m.FinishedAt),
	}
}

// AlertFromEntity converts a domain Alert entity to an AlertModel.
func AlertFromEntity(a *entity.Alert) *AlertModel {
	return &AlertModel{
		ID:            a.ID,
		Kind:          string(a.Kind),
		Reference:     a.Reference,
		Recipient:     a.Recipient,
		Subject:       a.Subject,
		Payload:       a.Payload,
		Status:        string(a.Status),
		Occurrences:   a.Occurrences,
		Attempts:      a.Attempts,
		MaxAttempts:   a.MaxAttempts,
		LastError:     a.LastError,
		ProviderID:    a.ProviderID,
		NextAttemptAt: a.NextAttemptAt,
		FinishedAt:    a.FinishedAt,
		CreatedAt:     a.CreatedAt,
	}
}
