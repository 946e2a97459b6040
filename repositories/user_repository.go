package repositories

import (
	"context"

	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := create(ctx, r.db, user); err != nil {
		return nil, err
	}
	logger.Log.Info("user created", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// CreateUserWithMetrics stores a user and its metrics atomically.
func (r *UserRepository) CreateUserWithMetrics(ctx context.Context, user *models.User, metrics *models.UserMetrics) (*models.User, *models.UserMetrics, error) {
	if err := validateModel(user); err != nil {
		return nil, nil, err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		metrics.UserID = user.ID
		return tx.Create(metrics).Error
	})
	if err != nil {
		logger.Log.Warn("user creation rolled back", zap.String("email", user.Email), zap.Error(err))
		return nil, nil, errs.FromDB(err)
	}

	logger.Log.Info("user created with metrics", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, metrics, nil
}

func (r *UserRepository) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	logger.Log.Info("fetching user", zap.Uint("user_id", userID))
	return firstWhere[models.User](ctx, r.db, "id = ?", userID)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	logger.Log.Info("fetching user", zap.String("email", email))
	return firstWhere[models.User](ctx, r.db, "email = ?", email)
}

func (r *UserRepository) GetUserMetrics(ctx context.Context, userID uint) (*models.UserMetrics, error) {
	logger.Log.Info("fetching user metrics", zap.Uint("user_id", userID))
	return firstWhere[models.UserMetrics](ctx, r.db, "user_id = ?", userID)
}

func (r *UserRepository) UpdateUser(ctx context.Context, userID uint, fields map[string]any) (*models.User, error) {
	user, err := updateWhere[models.User](ctx, r.db, nil, fields, "id = ?", userID)
	if err != nil {
		logger.Log.Warn("user update failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("user updated", zap.Uint("user_id", userID))
	return user, nil
}

func (r *UserRepository) UpdateUserMetrics(ctx context.Context, userID uint, fields map[string]any) (*models.UserMetrics, error) {
	metrics, err := updateWhere[models.UserMetrics](ctx, r.db, nil, fields, "user_id = ?", userID)
	if err != nil {
		logger.Log.Warn("user metrics update failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("user metrics updated", zap.Uint("user_id", userID))
	return metrics, nil
}

// DeleteUser removes the user together with metrics, requests, comments,
// registrations and plan enrolments.
func (r *UserRepository) DeleteUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := deleteWhere[models.User](ctx, r.db, "id = ?", userID)
	if err != nil {
		logger.Log.Warn("user delete failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("user deleted", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// ListUserPlans returns the workout plans the user takes.
func (r *UserRepository) ListUserPlans(ctx context.Context, userID uint) ([]models.WorkoutPlan, error) {
	var plans []models.WorkoutPlan
	err := r.db.WithContext(ctx).
		Joins("JOIN take ON take.workout_plan_id = workout_plan.id").
		Where("take.user_id = ?", userID).
		Order("workout_plan.id").
		Find(&plans).Error
	if err != nil {
		return nil, errs.FromDB(err)
	}
	logger.Log.Info("fetched user plans", zap.Uint("user_id", userID), zap.Int("count", len(plans)))
	return plans, nil
}
