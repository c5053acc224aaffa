package adapter

import (
	"context"
	"time"

	"github.com/boi-gordo/backend/internal/domain/entity"
)

// AlertOutbox persists operator alerts until they are delivered.
type AlertOutbox interface {
	// Enqueue stores a new alert.
	Enqueue(ctx context.Context, alert *entity.Alert) error

	// FindQueued returns the queued alert of kind about reference, or nil.
	FindQueued(ctx context.Context, kind entity.AlertKind, reference string) (*entity.Alert, error)

	// ClaimDue marks up to limit queued alerts due at now as sending and returns them.
	// Alerts stuck in sending past the claim lease are returned again.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*entity.Alert, error)

	// Save writes back an alert's state.
	Save(ctx context.Context, alert *entity.Alert) error

	// PurgeSent deletes sent alerts finished before the cutoff.
	PurgeSent(ctx context.Context, before time.Time) (int64, error)
}
