package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/selfstoragehq/storage-agent-be/internal/engine/router"
	"github.com/selfstoragehq/storage-agent-be/internal/models"
)

// EscalationRepo is the human support queue. It satisfies the router's
// EscalationRecorder interface.
type EscalationRepo interface {
	Record(ctx context.Context, e router.Escalation) error
	Pending(ctx context.Context, limit int) ([]models.Escalation, error)
	PendingCount(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}

type escalationRepo struct {
	db *gorm.DB
}

func NewEscalationRepo(db *gorm.DB) EscalationRepo {
	return &escalationRepo{db: db}
}

func (r *escalationRepo) Record(ctx context.Context, e router.Escalation) error {
	classifierCtx, err := json.Marshal(map[string]interface{}{
		"intent":     string(e.Intent),
		"confidence": e.Confidence,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal escalation context: %w", err)
	}

	record := models.Escalation{
		SenderPhone: e.SenderID,
		Message:     e.Text,
		Status:      models.EscalationPending,
		Context:     classifierCtx,
	}

	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *escalationRepo) Pending(ctx context.Context, limit int) ([]models.Escalation, error) {
	var escalations []models.Escalation
	err := r.db.WithContext(ctx).
		Where("status = ?", models.EscalationPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&escalations).Error

	return escalations, err
}

func (r *escalationRepo) PendingCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Escalation{}).
		Where("status = ?", models.EscalationPending).
		Count(&count).Error

	return count, err
}

func (r *escalationRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	switch status {
	case models.EscalationPending, models.EscalationClaimed, models.EscalationResolved:
	default:
		return fmt.Errorf("unknown escalation status: %s", status)
	}

	result := r.db.WithContext(ctx).
		Model(&models.Escalation{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
