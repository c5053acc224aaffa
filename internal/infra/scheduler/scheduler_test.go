package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/config"
	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/application/usecase/allocation"
	"github.com/boi-gordo/backend/internal/application/usecase/reconciliation"
	"github.com/boi-gordo/backend/internal/domain/entity"
)

type fakeAllocator struct {
	inputs []allocation.AllocateDailyCostsInput
	err    error
}

func (f *fakeAllocator) Execute(_ context.Context, input allocation.AllocateDailyCostsInput) (*allocation.AllocateDailyCostsOutput, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return &allocation.AllocateDailyCostsOutput{Date: input.Date, TotalAllocated: decimal.NewFromInt(335)}, nil
}

type fakeReconciler struct {
	inputs []reconciliation.ReconcilePeriodInput
	err    error
}

func (f *fakeReconciler) Execute(_ context.Context, input reconciliation.ReconcilePeriodInput) (*reconciliation.ReconcilePeriodOutput, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return &reconciliation.ReconcilePeriodOutput{
		AnalysisOutput: reconciliation.AnalysisOutput{
			Analysis: &entity.PeriodAnalysis{ReferenceMonth: input.Month},
		},
	}, nil
}

type fakeAlerts struct {
	failures []adapter.JobFailureInput
}

func (f *fakeAlerts) QueueReconciliationWarning(context.Context, adapter.ReconciliationWarningInput) error {
	return nil
}

func (f *fakeAlerts) QueueJobFailure(_ context.Context, input adapter.JobFailureInput) error {
	f.failures = append(f.failures, input)
	return nil
}

type fakeCleaner struct {
	retention int
}

func (f *fakeCleaner) CleanupSent(_ context.Context, retentionDays int) {
	f.retention = retentionDays
}

func newTestScheduler(timezone string, now time.Time) (*Scheduler, *fakeAllocator, *fakeReconciler, *fakeAlerts) {
	allocator := &fakeAllocator{}
	reconciler := &fakeReconciler{}
	alerts := &fakeAlerts{}
	s := NewScheduler(config.SchedulerConfig{
		DailyAllocationSpec:  "0 23 * * *",
		MonthlyReconcileSpec: "30 0 1 * *",
		Timezone:             timezone,
	}, allocator, reconciler, &fakeCleaner{}, alerts)
	s.now = func() time.Time { return now }
	return s, allocator, reconciler, alerts
}

func TestRunDailyAllocation(t *testing.T) {
	ctx := context.Background()

	t.Run("allocates the local calendar day", func(t *testing.T) {
		// 01:30 UTC on the 11th is still the 10th in Sao Paulo.
		now := time.Date(2024, 6, 11, 1, 30, 0, 0, time.UTC)
		s, allocator, _, alerts := newTestScheduler("America/Sao_Paulo", now)

		if err := s.RunDailyAllocation(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(allocator.inputs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(allocator.inputs))
		}
		want := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
		if !allocator.inputs[0].Date.Equal(want) {
			t.Errorf("expected %v, got %v", want, allocator.inputs[0].Date)
		}
		if len(alerts.failures) != 0 {
			t.Errorf("expected no alerts, got %d", len(alerts.failures))
		}
	})

	t.Run("failure queues an alert", func(t *testing.T) {
		now := time.Date(2024, 6, 10, 23, 0, 0, 0, time.UTC)
		s, allocator, _, alerts := newTestScheduler("UTC", now)
		allocator.err = errors.New("store unavailable")

		if err := s.RunDailyAllocation(ctx); err == nil {
			t.Fatal("expected error, got nil")
		}
		if len(alerts.failures) != 1 {
			t.Fatalf("expected 1 alert, got %d", len(alerts.failures))
		}
		failure := alerts.failures[0]
		if failure.JobName != JobDailyAllocation || failure.Reference != "2024-06-10" {
			t.Errorf("expected %s for 2024-06-10, got %s for %s", JobDailyAllocation, failure.JobName, failure.Reference)
		}
		if failure.Error != "store unavailable" {
			t.Errorf("expected error text, got %q", failure.Error)
		}
		if failure.OccurredAt != "2024-06-10T23:00:00Z" {
			t.Errorf("expected occurred_at 2024-06-10T23:00:00Z, got %s", failure.OccurredAt)
		}
	})
}

func TestRunMonthlyReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("reconciles the previous month", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC)
		s, _, reconciler, _ := newTestScheduler("UTC", now)

		if err := s.RunMonthlyReconcile(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(reconciler.inputs) != 1 || reconciler.inputs[0].Month != "2023-12" {
			t.Errorf("expected 2023-12, got %+v", reconciler.inputs)
		}
	})

	t.Run("failure queues an alert", func(t *testing.T) {
		now := time.Date(2024, 7, 1, 0, 30, 0, 0, time.UTC)
		s, _, reconciler, alerts := newTestScheduler("UTC", now)
		reconciler.err = errors.New("ledger locked")

		if err := s.RunMonthlyReconcile(ctx); err == nil {
			t.Fatal("expected error, got nil")
		}
		if len(alerts.failures) != 1 || alerts.failures[0].Reference != "2024-06" {
			t.Errorf("expected alert for 2024-06, got %+v", alerts.failures)
		}
	})
}

func TestSchedulerLifecycle(t *testing.T) {
	t.Run("invalid spec is rejected", func(t *testing.T) {
		s := NewScheduler(config.SchedulerConfig{
			DailyAllocationSpec:  "not a cron",
			MonthlyReconcileSpec: "30 0 1 * *",
			Timezone:             "UTC",
		}, &fakeAllocator{}, &fakeReconciler{}, nil, nil)

		if err := s.Start(); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("registers all jobs", func(t *testing.T) {
		s, _, _, _ := newTestScheduler("UTC", time.Now())
		if err := s.Start(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer s.Stop()

		if got := len(s.cron.Entries()); got != 3 {
			t.Errorf("expected 3 jobs, got %d", got)
		}
	})

	t.Run("unknown timezone falls back to UTC", func(t *testing.T) {
		s, _, _, _ := newTestScheduler("Mars/Olympus", time.Now())
		if s.location != time.UTC {
			t.Errorf("expected UTC, got %v", s.location)
		}
	})

	t.Run("cleanup keeps sent alerts for thirty days", func(t *testing.T) {
		cleaner := &fakeCleaner{}
		s := NewScheduler(config.SchedulerConfig{Timezone: "UTC"}, &fakeAllocator{}, &fakeReconciler{}, cleaner, nil)
		_ = s.runAlertCleanup(context.Background())
		if cleaner.retention != 30 {
			t.Errorf("expected 30, got %d", cleaner.retention)
		}
	})
}
