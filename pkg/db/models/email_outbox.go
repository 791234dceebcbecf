package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradzyhq/tradzy-backend/pkg/enums"
)

// EmailOutbox is a transactional outbox row for order confirmation mail.
// Rows are written inside the order-creation transaction and dispatched by
// the mailer worker, so a slow or failing transport never delays or fails
// the order itself.
type EmailOutbox struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index"`
	Recipient    string             `gorm:"column:recipient;not null"`
	Subject      string             `gorm:"column:subject;not null"`
	BodyHTML     string             `gorm:"column:body_html;not null"`
	Status       enums.OutboxStatus `gorm:"column:status;type:text;not null;default:'pending';index"`
	AttemptCount int                `gorm:"column:attempt_count;not null;default:0"`
	LastError    *string            `gorm:"column:last_error"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	SentAt       *time.Time         `gorm:"column:sent_at"`
}

func (e *EmailOutbox) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (EmailOutbox) TableName() string {
	return "email_outbox"
}
