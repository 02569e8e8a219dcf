package postgres

import (
	"context"

	"github.com/speaksuit/speaksuit/internal/models"
	"gorm.io/gorm"
)

type UtteranceRepo interface {
	Insert(ctx context.Context, u *models.Utterance) error
	// ListRecent returns the newest rows first, bounded by limit.
	ListRecent(ctx context.Context, meetingID string, limit int) ([]models.Utterance, error)
}

type utteranceRepo struct {
	db *gorm.DB
}

func NewUtteranceRepo(db *gorm.DB) UtteranceRepo {
	return &utteranceRepo{db: db}
}

func (r *utteranceRepo) Insert(ctx context.Context, u *models.Utterance) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *utteranceRepo) ListRecent(ctx context.Context, meetingID string, limit int) ([]models.Utterance, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.Utterance
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
