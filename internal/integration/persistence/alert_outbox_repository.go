package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	"github.com/boi-gordo/backend/internal/integration/persistence/model"
)

// alertOutboxRepository implements the adapter.AlertOutbox interface.
type alertOutboxRepository struct {
	db *gorm.DB
}

// NewAlertOutboxRepository creates a new alert outbox repository instance.
func NewAlertOutboxRepository(db *gorm.DB) adapter.AlertOutbox {
	return &alertOutboxRepository{
		db: db,
	}
}

func (r *alertOutboxRepository) Enqueue(ctx context.Context, alert *entity.Alert) error {
	if err := r.db.WithContext(ctx).Create(model.AlertFromEntity(alert)).Error; err != nil {
		return fmt.Errorf("failed to enqueue %s alert: %w", alert.Kind, err)
	}
	return nil
}

func (r *alertOutboxRepository) FindQueued(ctx context.Context, kind entity.AlertKind, reference string) (*entity.Alert, error) {
	var alertModel model.AlertModel
	result := r.db.WithContext(ctx).
		Where("kind = ? AND reference = ? AND status = ?", string(kind), reference, string(entity.AlertStatusQueued)).
		Order("created_at ASC").
		First(&alertModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return alertModel.ToEntity(), nil
}

// alertClaimLease is how long a claimed alert may stay in sending before
// another worker takes it over.
const alertClaimLease = 10 * time.Minute

// ClaimDue flips the due rows to sending inside one transaction so two
// workers never pick the same alert. Rows left in sending by a worker that
// died are claimed again once their lease runs out. Postgres skips rows
// locked by a concurrent claim.
func (r *alertOutboxRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*entity.Alert, error) {
	var claimed []model.AlertModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where(
			"(status = ? AND next_attempt_at <= ?) OR (status = ? AND updated_at <= ?)",
			string(entity.AlertStatusQueued), now,
			string(entity.AlertStatusSending), now.Add(-alertClaimLease),
		).
			Order("next_attempt_at ASC").
			Limit(limit)
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		if err := query.Find(&claimed).Error; err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}

		ids := make([]any, len(claimed))
		for i, m := range claimed {
			ids[i] = m.ID
		}
		return tx.Model(&model.AlertModel{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"status":     string(entity.AlertStatusSending),
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim due alerts: %w", err)
	}

	alerts := make([]*entity.Alert, len(claimed))
	for i, m := range claimed {
		m := m
		alerts[i] = m.ToEntity()
		alerts[i].StartSending()
	}
	return alerts, nil
}

func (r *alertOutboxRepository) Save(ctx context.Context, alert *entity.Alert) error {
	alertModel := model.AlertFromEntity(alert)
	result := r.db.WithContext(ctx).
		Model(&model.AlertModel{}).
		Where("id = ?", alert.ID).
		Select("subject", "payload", "status", "occurrences", "attempts", "last_error",
			"provider_id", "next_attempt_at", "finished_at", "updated_at").
		Updates(alertModel)
	if result.Error != nil {
		return fmt.Errorf("failed to save alert %s: %w", alert.ID, result.Error)
	}
	return nil
}

func (r *alertOutboxRepository) PurgeSent(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND finished_at < ?", string(entity.AlertStatusSent), before).
		Delete(&model.AlertModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge sent alerts: %w", result.Error)
	}
	return result.RowsAffected, nil
}
