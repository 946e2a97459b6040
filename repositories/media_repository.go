package repositories

import (
	"context"

	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) CreateMedia(ctx context.Context, media *models.Media) (*models.Media, error) {
	if media.ID == uuid.Nil {
		media.ID = uuid.New()
	}
	if err := errs.FromDB(r.db.WithContext(ctx).Create(media).Error); err != nil {
		return nil, err
	}
	logger.Log.Info("media stored", zap.String("media_id", media.ID.String()), zap.String("email", media.UserEmail))
	return media, nil
}

func (r *MediaRepository) GetMedia(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	logger.Log.Info("fetching media", zap.String("media_id", id.String()))
	return firstWhere[models.Media](ctx, r.db, "id = ?", id)
}
