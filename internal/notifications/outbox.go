package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradzyhq/tradzy-backend/pkg/db/models"
	"github.com/tradzyhq/tradzy-backend/pkg/enums"
)

// Repository provides persistence for the email outbox.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction. Order
// placement uses this so the outbox row commits or rolls back with the order.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Enqueue inserts a pending outbox row.
func (r *Repository) Enqueue(ctx context.Context, row *models.EmailOutbox) error {
	row.Status = enums.OutboxStatusPending
	return r.db.WithContext(ctx).Create(row).Error
}

// ListPending returns dispatchable rows, oldest first. Rows that have
// exhausted their attempts stay failed and are excluded.
func (r *Repository) ListPending(ctx context.Context, limit, maxAttempts int) ([]models.EmailOutbox, error) {
	var rows []models.EmailOutbox
	err := r.db.WithContext(ctx).
		Where("status = ? AND attempt_count < ?", enums.OutboxStatusPending, maxAttempts).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkSent finalizes a row after successful delivery.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.EmailOutbox{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        enums.OutboxStatusSent,
			"sent_at":       now,
			"last_error":    nil,
			"attempt_count": gorm.Expr("attempt_count + 1"),
		}).Error
}

// MarkFailed records a delivery failure. The row flips to failed once the
// attempt budget is spent, otherwise it stays pending for the next sweep.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, cause string, maxAttempts int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.EmailOutbox{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"last_error":    cause,
				"attempt_count": gorm.Expr("attempt_count + 1"),
			}).Error; err != nil {
			return err
		}
		return tx.Model(&models.EmailOutbox{}).
			Where("id = ? AND attempt_count >= ?", id, maxAttempts).
			UpdateColumn("status", enums.OutboxStatusFailed).Error
	})
}
