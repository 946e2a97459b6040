package repositories

import (
	"context"
	"math"

	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// CreateGymComment stores the comment and refreshes gym.rating from all of
// the gym's comments.
func (r *CommentRepository) CreateGymComment(ctx context.Context, comment *models.GymComment) (*models.GymComment, error) {
	if err := validateModel(comment); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		avg, err := averageRating(tx, &models.GymComment{}, "gym_id", comment.GymID)
		if err != nil {
			return err
		}
		return tx.Model(&models.Gym{}).Where("id = ?", comment.GymID).Update("rating", roundRating(avg)).Error
	})
	if err != nil {
		logger.Log.Warn("gym comment rolled back", zap.Uint("gym_id", comment.GymID), zap.Uint("user_id", comment.UserID), zap.Error(err))
		return nil, errs.FromDB(err)
	}

	logger.Log.Info("gym comment created", zap.Uint("gym_comment_id", comment.ID), zap.Uint("gym_id", comment.GymID))
	return comment, nil
}

// CreateCoachComment stores the comment and refreshes coach_metrics.rating.
func (r *CommentRepository) CreateCoachComment(ctx context.Context, comment *models.CoachComment) (*models.CoachComment, error) {
	if err := validateModel(comment); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		avg, err := averageRating(tx, &models.CoachComment{}, "coach_id", comment.CoachID)
		if err != nil {
			return err
		}
		return tx.Model(&models.CoachMetrics{}).Where("coach_id = ?", comment.CoachID).Update("rating", roundRating(avg)).Error
	})
	if err != nil {
		logger.Log.Warn("coach comment rolled back", zap.Uint("coach_id", comment.CoachID), zap.Uint("user_id", comment.UserID), zap.Error(err))
		return nil, errs.FromDB(err)
	}

	logger.Log.Info("coach comment created", zap.Uint("coach_comment_id", comment.ID), zap.Uint("coach_id", comment.CoachID))
	return comment, nil
}

func (r *CommentRepository) ListGymComments(ctx context.Context, gymID uint) ([]models.GymComment, error) {
	var comments []models.GymComment
	if err := r.db.WithContext(ctx).Where("gym_id = ?", gymID).Order("id").Find(&comments).Error; err != nil {
		return nil, errs.FromDB(err)
	}
	return comments, nil
}

func (r *CommentRepository) ListCoachComments(ctx context.Context, coachID uint) ([]models.CoachComment, error) {
	var comments []models.CoachComment
	if err := r.db.WithContext(ctx).Where("coach_id = ?", coachID).Order("id").Find(&comments).Error; err != nil {
		return nil, errs.FromDB(err)
	}
	return comments, nil
}

// DeleteGymComment removes a comment the user wrote on the gym and refreshes
// gym.rating from the remaining comments.
func (r *CommentRepository) DeleteGymComment(ctx context.Context, userID, gymID, commentID uint) (*models.GymComment, error) {
	var comment models.GymComment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ? AND gym_id = ?", commentID, userID, gymID).
			First(&comment).Error; err != nil {
			return err
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		avg, err := averageRating(tx, &models.GymComment{}, "gym_id", gymID)
		if err != nil {
			return err
		}
		return tx.Model(&models.Gym{}).Where("id = ?", gymID).Update("rating", roundRating(avg)).Error
	})
	if err != nil {
		logger.Log.Warn("gym comment delete failed", zap.Uint("gym_comment_id", commentID), zap.Uint("user_id", userID), zap.Error(err))
		return nil, errs.FromDB(err)
	}
	logger.Log.Info("gym comment deleted", zap.Uint("gym_comment_id", commentID), zap.Uint("gym_id", gymID))
	return &comment, nil
}

// DeleteCoachComment removes a comment the user wrote on the coach and
// refreshes coach_metrics.rating.
func (r *CommentRepository) DeleteCoachComment(ctx context.Context, userID, coachID, commentID uint) (*models.CoachComment, error) {
	var comment models.CoachComment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ? AND coach_id = ?", commentID, userID, coachID).
			First(&comment).Error; err != nil {
			return err
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		avg, err := averageRating(tx, &models.CoachComment{}, "coach_id", coachID)
		if err != nil {
			return err
		}
		return tx.Model(&models.CoachMetrics{}).Where("coach_id = ?", coachID).Update("rating", roundRating(avg)).Error
	})
	if err != nil {
		logger.Log.Warn("coach comment delete failed", zap.Uint("coach_comment_id", commentID), zap.Uint("user_id", userID), zap.Error(err))
		return nil, errs.FromDB(err)
	}
	logger.Log.Info("coach comment deleted", zap.Uint("coach_comment_id", commentID), zap.Uint("coach_id", coachID))
	return &comment, nil
}

func (r *CommentRepository) AverageGymRating(ctx context.Context, gymID uint) (float64, error) {
	avg, err := averageRating(r.db.WithContext(ctx), &models.GymComment{}, "gym_id", gymID)
	return avg, errs.FromDB(err)
}

func (r *CommentRepository) AverageCoachRating(ctx context.Context, coachID uint) (float64, error) {
	avg, err := averageRating(r.db.WithContext(ctx), &models.CoachComment{}, "coach_id", coachID)
	return avg, errs.FromDB(err)
}

func averageRating(db *gorm.DB, model any, column string, id uint) (float64, error) {
	var result struct {
		Avg float64
	}
	err := db.Model(model).
		Where(column+" = ?", id).
		Select("COALESCE(AVG(rating), 0) AS avg").
		Scan(&result).Error
	return result.Avg, err
}

// roundRating keeps a stored average inside the 0..5 rating range.
func roundRating(avg float64) int {
	return int(math.Max(0, math.Min(5, math.Round(avg))))
}
