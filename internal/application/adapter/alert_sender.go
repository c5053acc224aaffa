package adapter

import (
	"context"
)

// AlertMessage is a rendered alert ready for the provider.
type AlertMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
	Tags    map[string]string
}

// AlertSender delivers rendered alerts through an email provider.
type AlertSender interface {
	// Send delivers the message and returns the provider's message ID.
	Send(ctx context.Context, message AlertMessage) (string, error)
}

// AlertService defines the interface for queueing operator alerts.
type AlertService interface {
	// QueueReconciliationWarning queues an alert for a period analysis that failed its consistency check.
	QueueReconciliationWarning(ctx context.Context, input ReconciliationWarningInput) error

	// QueueJobFailure queues an alert for a scheduled job that failed.
	QueueJobFailure(ctx context.Context, input JobFailureInput) error
}

// ReconciliationWarningInput represents the input for a reconciliation warning alert.
type ReconciliationWarningInput struct {
	Month                    string
	ReconciliationDifference string
	NonCashItems             string
	Warnings                 []string
}

// JobFailureInput represents the input for a scheduled job failure alert.
type JobFailureInput struct {
	JobName    string
	Reference  string
	Error      string
	OccurredAt string
}
