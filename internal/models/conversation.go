package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is one inbound message and the reply it produced.
type Conversation struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SenderPhone string    `gorm:"type:text;not null;index" json:"sender_phone"`
	Inbound     string    `gorm:"type:text" json:"inbound"`
	Reply       string    `gorm:"type:text" json:"reply"`
	Route       string    `gorm:"type:text" json:"route"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (Conversation) TableName() string {
	return "conversations"
}

// BeforeCreate sets UUID before creating
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
