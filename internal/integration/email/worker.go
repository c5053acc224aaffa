package email

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/integration/email/templates"
)

// Worker drains the alert outbox.
type Worker struct {
	outbox   adapter.AlertOutbox
	sender   adapter.AlertSender
	renderer *templates.Renderer
	config   WorkerConfig
	now      func() time.Time
}

// WorkerConfig holds configuration for the alert worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	Concurrency  int
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
		Concurrency:  2,
	}
}

// NewWorker creates a new alert worker.
func NewWorker(outbox adapter.AlertOutbox, sender adapter.AlertSender, renderer *templates.Renderer, config WorkerConfig) *Worker {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	return &Worker{
		outbox:   outbox,
		sender:   sender,
		renderer: renderer,
		config:   config,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start polls the outbox until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Alert worker started",
		"poll_interval", w.config.PollInterval,
		"batch_size", w.config.BatchSize,
		"concurrency", w.config.Concurrency,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.drain(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Alert worker shutting down")
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// ProcessNow delivers every alert that is due right away.
func (w *Worker) ProcessNow(ctx context.Context) {
	w.drain(ctx)
}

// drain claims one batch of due alerts and delivers it.
func (w *Worker) drain(ctx context.Context) {
	alerts, err := w.outbox.ClaimDue(ctx, w.now(), w.config.BatchSize)
	if err != nil {
		slog.Error("Failed to claim due alerts", "error", err)
		return
	}
	if len(alerts) == 0 {
		return
	}

	slog.Debug("Delivering alerts", "count", len(alerts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.config.Concurrency)
	for _, alert := range alerts {
		alert := alert
		g.Go(func() error {
			w.deliver(gctx, alert)
			return nil
		})
	}
	_ = g.Wait()
}

func (w *Worker) deliver(ctx context.Context, alert *entity.Alert) {
	logger := slog.With("alert_id", alert.ID, "kind", alert.Kind, "reference", alert.Reference)

	html, text, err := w.renderer.Render(string(alert.Kind), alert.Payload)
	if err != nil {
		w.settle(ctx, logger, alert, domainerror.NewAlertError(domainerror.ErrCodeAlertTemplate, "failed to render alert", err))
		return
	}

	providerID, err := w.sender.Send(ctx, adapter.AlertMessage{
		To:      alert.Recipient,
		Subject: alert.Subject,
		HTML:    html,
		Text:    text,
		Tags:    map[string]string{"kind": string(alert.Kind)},
	})
	if err != nil {
		w.settle(ctx, logger, alert, err)
		return
	}

	alert.Delivered(providerID, w.now())
	if err := w.outbox.Save(ctx, alert); err != nil {
		logger.Error("Failed to record delivered alert", "error", err)
		return
	}
	logger.Info("Alert delivered", "provider_id", providerID, "occurrences", alert.Occurrences)
}

// settle records a failed attempt. Errors that are not coded count as temporary.
func (w *Worker) settle(ctx context.Context, logger *slog.Logger, alert *entity.Alert, cause error) {
	var alertErr *domainerror.AlertError
	permanent := errors.As(cause, &alertErr) && alertErr.Permanent()

	alert.Failed(cause, permanent, w.now())
	if err := w.outbox.Save(ctx, alert); err != nil {
		logger.Error("Failed to record alert failure", "error", err)
	}

	if alert.Status == entity.AlertStatusFailed {
		logger.Warn("Alert abandoned", "attempts", alert.Attempts, "error", cause)
		return
	}
	logger.Info("Alert delivery will be retried",
		"attempts", alert.Attempts,
		"next_attempt_at", alert.NextAttemptAt,
		"error", cause,
	)
}

// CleanupSent purges sent alerts older than retentionDays.
func (w *Worker) CleanupSent(ctx context.Context, retentionDays int) {
	cutoff := w.now().AddDate(0, 0, -retentionDays)
	purged, err := w.outbox.PurgeSent(ctx, cutoff)
	if err != nil {
		slog.Error("Failed to purge sent alerts", "error", err)
		return
	}
	if purged > 0 {
		slog.Info("Purged sent alerts", "count", purged)
	}
}
