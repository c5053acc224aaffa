// Package scheduler runs the recurring allocation and reconciliation jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/boi-gordo/backend/config"
	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/application/usecase/allocation"
	"github.com/boi-gordo/backend/internal/application/usecase/reconciliation"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
)

const (
	// JobDailyAllocation is the name of the nightly cost allocation job.
	JobDailyAllocation  = "daily-allocation"
	// JobMonthlyReconcile is the name of the job reconciling the month that just closed.
	JobMonthlyReconcile = "monthly-reconcile"
	// JobAlertCleanup is the name of the job pruning delivered alerts.
	JobAlertCleanup     = "alert-cleanup"

	jobTimeout        = 5 * time.Minute
	sentRetentionDays = 30
	alertCleanupSpec  = "15 3 * * *"
)

type scheduledJob struct {
	name string
	spec string
	run  func(ctx context.Context) error
}

// DailyAllocator allocates one day of shared costs.
type DailyAllocator interface {
	Execute(ctx context.Context, input allocation.AllocateDailyCostsInput) (*allocation.AllocateDailyCostsOutput, error)
}

// PeriodReconciler ingests and reconciles one month.
type PeriodReconciler interface {
	Execute(ctx context.Context, input reconciliation.ReconcilePeriodInput) (*reconciliation.ReconcilePeriodOutput, error)
}

// SentCleaner removes delivered alerts older than the retention.
type SentCleaner interface {
	CleanupSent(ctx context.Context, retentionDays int)
}

// Scheduler manages scheduled jobs.
type Scheduler struct {
	cron       *cron.Cron
	cfg        config.SchedulerConfig
	location   *time.Location
	allocator  DailyAllocator
	reconciler PeriodReconciler
	cleaner    SentCleaner
	alerts     adapter.AlertService
	now        func() time.Time
}

// NewScheduler creates a new scheduler instance. An unknown timezone falls back to UTC.
// cleaner may be nil when the alert worker is disabled.
func NewScheduler(
	cfg config.SchedulerConfig,
	allocator DailyAllocator,
	reconciler PeriodReconciler,
	cleaner SentCleaner,
	alerts adapter.AlertService,
) *Scheduler {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		slog.Warn("Unknown scheduler timezone, using UTC", "timezone", cfg.Timezone, "error", err)
		location = time.UTC
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(location)),
		cfg:        cfg,
		location:   location,
		allocator:  allocator,
		reconciler: reconciler,
		cleaner:    cleaner,
		alerts:     alerts,
		now:        time.Now,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	jobs := []scheduledJob{
		{JobDailyAllocation, s.cfg.DailyAllocationSpec, s.RunDailyAllocation},
		{JobMonthlyReconcile, s.cfg.MonthlyReconcileSpec, s.RunMonthlyReconcile},
	}
	if s.cleaner != nil {
		jobs = append(jobs, scheduledJob{JobAlertCleanup, alertCleanupSpec, s.runAlertCleanup})
	}

	for _, job := range jobs {
		run := job.run
		name := job.name
		if _, err := s.cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			_ = run(ctx)
		}); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", name, err)
		}
		slog.Info("Job registered", "job", name, "schedule", job.spec, "timezone", s.location.String())
	}

	s.cron.Start()
	slog.Info("Scheduler started")
	return nil
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("Scheduler stopped")
}

// RunDailyAllocation allocates the costs of the current day in the scheduler timezone.
func (s *Scheduler) RunDailyAllocation(ctx context.Context) error {
	local := s.now().In(s.location)
	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	reference := valueobject.FormatDate(date)

	output, err := s.allocator.Execute(ctx, allocation.AllocateDailyCostsInput{Date: date})
	if err != nil {
		s.reportFailure(ctx, JobDailyAllocation, reference, err)
		return err
	}

	slog.Info("Daily allocation completed",
		"date", reference,
		"skipped", output.Skipped,
		"lots", len(output.Allocations),
		"total_allocated", output.TotalAllocated.StringFixed(2),
	)
	return nil
}

// RunMonthlyReconcile reconciles the month before the current one.
func (s *Scheduler) RunMonthlyReconcile(ctx context.Context) error {
	local := s.now().In(s.location)
	month := valueobject.Month{Year: local.Year(), Month: local.Month()}.Previous()
	reference := month.String()

	output, err := s.reconciler.Execute(ctx, reconciliation.ReconcilePeriodInput{Month: reference})
	if err != nil {
		s.reportFailure(ctx, JobMonthlyReconcile, reference, err)
		return err
	}

	slog.Info("Monthly reconciliation completed",
		"month", reference,
		"transactions", output.Analysis.TransactionCount,
		"difference", output.Analysis.ReconciliationDifference.StringFixed(2),
		"warnings", len(output.Analysis.Warnings),
	)
	return nil
}

func (s *Scheduler) runAlertCleanup(ctx context.Context) error {
	s.cleaner.CleanupSent(ctx, sentRetentionDays)
	return nil
}

func (s *Scheduler) reportFailure(ctx context.Context, job, reference string, jobErr error) {
	slog.Error("Scheduled job failed", "job", job, "reference", reference, "error", jobErr)
	if s.alerts == nil {
		return
	}

	if err := s.alerts.QueueJobFailure(ctx, adapter.JobFailureInput{
		JobName:    job,
		Reference:  reference,
		Error:      jobErr.Error(),
		OccurredAt: s.now().UTC().Format(time.RFC3339),
	}); err != nil {
		slog.Error("Failed to queue job failure alert", "job", job, "error", err)
	}
}
