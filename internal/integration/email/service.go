// Package email delivers operator alerts through an outbox and Resend.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

// Service writes operator alerts to the outbox.
type Service struct {
	outbox    adapter.AlertOutbox
	recipient string
	now       func() time.Time
}

// NewService creates a new alert service. With an empty recipient alerts are
// only logged.
func NewService(outbox adapter.AlertOutbox, recipient string) *Service {
	return &Service{
		outbox:    outbox,
		recipient: strings.TrimSpace(recipient),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// QueueReconciliationWarning queues an alert for a month whose cash and accrual views disagree.
func (s *Service) QueueReconciliationWarning(ctx context.Context, input adapter.ReconciliationWarningInput) error {
	subject := fmt.Sprintf("Conciliacao %s com divergencia de %s", input.Month, input.ReconciliationDifference)

	warnings := make([]any, len(input.Warnings))
	for i, w := range input.Warnings {
		warnings[i] = w
	}

	return s.raise(ctx, entity.AlertReconciliationWarning, input.Month, subject, map[string]any{
		"month":                     input.Month,
		"reconciliation_difference": input.ReconciliationDifference,
		"non_cash_items":            input.NonCashItems,
		"warnings":                  warnings,
	})
}

// QueueJobFailure queues an alert for a scheduled job that failed.
func (s *Service) QueueJobFailure(ctx context.Context, input adapter.JobFailureInput) error {
	subject := fmt.Sprintf("Falha na rotina %s (%s)", input.JobName, input.Reference)

	return s.raise(ctx, entity.AlertJobFailure, input.JobName+":"+input.Reference, subject, map[string]any{
		"job_name":    input.JobName,
		"reference":   input.Reference,
		"error":       input.Error,
		"occurred_at": input.OccurredAt,
	})
}

// raise queues an alert, or refreshes the one still waiting for the same subject.
func (s *Service) raise(ctx context.Context, kind entity.AlertKind, reference, subject string, payload map[string]any) error {
	logger := slog.With("kind", kind, "reference", reference)

	if s.recipient == "" {
		logger.Warn("Alert dropped, no recipient configured", "subject", subject)
		return nil
	}

	pending, err := s.outbox.FindQueued(ctx, kind, reference)
	if err != nil {
		return domainerror.NewAlertError(domainerror.ErrCodeAlertQueueFailed, "failed to look up queued alert", err)
	}

	if pending != nil {
		pending.Retrigger(subject, payload)
		if err := s.outbox.Save(ctx, pending); err != nil {
			return domainerror.NewAlertError(domainerror.ErrCodeAlertQueueFailed, "failed to refresh queued alert", err)
		}
		logger.Info("Alert refreshed", "alert_id", pending.ID, "occurrences", pending.Occurrences)
		return nil
	}

	alert := entity.NewAlert(kind, reference, s.recipient, subject, payload, s.now())
	if err := s.outbox.Enqueue(ctx, alert); err != nil {
		return domainerror.NewAlertError(domainerror.ErrCodeAlertQueueFailed, fmt.Sprintf("failed to queue %s alert", kind), err)
	}

	logger.Info("Alert queued", "alert_id", alert.ID)
	return nil
}

var _ adapter.AlertService = (*Service)(nil)
