// Package domain contains the webhook delivery audit trail.
package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

// Delivery outcomes.
const (
	OutcomeProcessed = "processed"
	OutcomeIgnored   = "ignored"
	OutcomeFailed    = "failed"
)

// WebhookDelivery records one inbound delivery: what arrived, what became
// of it, and the raw payload for replay debugging. Written best-effort
// after dispatch; never part of a handler transaction.
type WebhookDelivery struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID string         `gorm:"type:text;column:message_id;index:ix_webhook_deliveries_message_id" json:"message_id"`
	EventType string         `gorm:"type:text;column:event_type" json:"event_type"`
	Outcome   string         `gorm:"type:text;not null" json:"outcome"`
	Error     *string        `gorm:"type:text" json:"error"`
	Payload   datatypes.JSON `gorm:"column:payload" json:"payload"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (WebhookDelivery) TableName() string { return "webhook_deliveries" }

// Entry is one delivery to record.
type Entry struct {
	MessageID string
	EventType string
	Outcome   string
	Err       error
	Payload   []byte
}

type Service interface {
	Record(ctx context.Context, entry Entry)
}
