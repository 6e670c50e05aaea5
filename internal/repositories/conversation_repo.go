package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/selfstoragehq/storage-agent-be/internal/models"
)

// ConversationRepo persists the message log. It satisfies the engine's
// ConversationLogger interface.
type ConversationRepo interface {
	Log(ctx context.Context, senderID, inbound, reply, route string) error
	RecentBySender(ctx context.Context, senderID string, limit int) ([]models.Conversation, error)
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Log(ctx context.Context, senderID, inbound, reply, route string) error {
	conversation := models.Conversation{
		SenderPhone: senderID,
		Inbound:     inbound,
		Reply:       reply,
		Route:       route,
	}

	return r.db.WithContext(ctx).Create(&conversation).Error
}

func (r *conversationRepo) RecentBySender(ctx context.Context, senderID string, limit int) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.WithContext(ctx).
		Where("sender_phone = ?", senderID).
		Order("created_at DESC").
		Limit(limit).
		Find(&conversations).Error

	return conversations, err
}
