package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Escalation statuses walk pending -> claimed -> resolved.
const (
	EscalationPending  = "pending"
	EscalationClaimed  = "claimed"
	EscalationResolved = "resolved"
)

// Escalation is a customer waiting for a human. Context carries the
// classifier's view of the triggering message (intent, confidence) so
// staff can see why the bot handed off.
type Escalation struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SenderPhone string         `gorm:"type:text;not null;index" json:"sender_phone"`
	Message     string         `gorm:"type:text" json:"message"`
	Status      string         `gorm:"type:text;default:'pending';index" json:"status"`
	Context     datatypes.JSON `gorm:"type:jsonb" json:"context"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Escalation) TableName() string {
	return "escalations"
}

// BeforeCreate sets UUID before creating
func (e *Escalation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
