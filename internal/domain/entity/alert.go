package entity

import (
	"time"

	"github.com/google/uuid"
)

// AlertStatus is the delivery state of an operator alert.
type AlertStatus string

const (
	AlertStatusQueued  AlertStatus = "queued"
	AlertStatusSending AlertStatus = "sending"
	AlertStatusSent    AlertStatus = "sent"
	AlertStatusFailed  AlertStatus = "failed"
)

// AlertKind selects the message template of an alert.
type AlertKind string

const (
	AlertReconciliationWarning AlertKind = "reconciliation_warning"
	AlertJobFailure            AlertKind = "job_failure"
)

// alertBackoff is the wait before the nth retry. Its length bounds the retries.
var alertBackoff = []time.Duration{time.Minute, 5 * time.Minute, 30 * time.Minute}

// Alert is an operator notification in the outbox. Kind and Reference
// identify its subject (a month, a job run): while an alert is still queued,
// a new trigger for the same subject refreshes it instead of adding another.
type Alert struct {
	ID            uuid.UUID
	Kind          AlertKind
	Reference     string
	Recipient     string
	Subject       string
	Payload       map[string]any
	Status        AlertStatus
	Occurrences   int
	Attempts      int
	MaxAttempts   int
	LastError     string
	ProviderID    string
	CreatedAt     time.Time
	NextAttemptAt time.Time
	FinishedAt    *time.Time
}

// NewAlert creates a queued alert due immediately.
func NewAlert(kind AlertKind, reference, recipient, subject string, payload map[string]any, now time.Time) *Alert {
	if payload == nil {
		payload = map[string]any{}
	}
	return &Alert{
		ID:            uuid.New(),
		Kind:          kind,
		Reference:     reference,
		Recipient:     recipient,
		Subject:       subject,
		Payload:       payload,
		Status:        AlertStatusQueued,
		Occurrences:   1,
		MaxAttempts:   len(alertBackoff) + 1,
		CreatedAt:     now,
		NextAttemptAt: now,
	}
}

// Retrigger folds a repeated trigger into a queued alert. The newest subject
// and payload win.
func (a *Alert) Retrigger(subject string, payload map[string]any) {
	a.Subject = subject
	if payload != nil {
		a.Payload = payload
	}
	a.Occurrences++
}

// StartSending marks the alert as claimed by a worker.
func (a *Alert) StartSending() {
	a.Status = AlertStatusSending
}

// Delivered records a successful send.
func (a *Alert) Delivered(providerID string, now time.Time) {
	a.Status = AlertStatusSent
	a.ProviderID = providerID
	a.LastError = ""
	a.FinishedAt = &now
}

// Failed records a failed attempt. Temporary failures go back to the queue
// with backoff until the attempts run out.
func (a *Alert) Failed(err error, permanent bool, now time.Time) {
	a.Attempts++
	a.LastError = err.Error()

	if permanent || a.Attempts >= a.MaxAttempts {
		a.Status = AlertStatusFailed
		a.FinishedAt = &now
		return
	}

	a.Status = AlertStatusQueued
	a.NextAttemptAt = now.Add(alertBackoff[min(a.Attempts, len(alertBackoff))-1])
}
