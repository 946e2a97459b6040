package repositories

import (
	"context"
	"fmt"

	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	coachMetricsRules   = fieldRules{"rating": ratingRule}
	coachPlanPriceRules = fieldRules{"exercise_price": nonNegativeRule, "meal_price": nonNegativeRule}
)

type CoachRepository struct {
	db *gorm.DB
}

func NewCoachRepository(db *gorm.DB) *CoachRepository {
	return &CoachRepository{db: db}
}

func (r *CoachRepository) CreateCoach(ctx context.Context, coach *models.Coach) (*models.Coach, error) {
	if err := create(ctx, r.db, coach); err != nil {
		return nil, err
	}
	logger.Log.Info("coach created", zap.Uint("coach_id", coach.ID), zap.String("email", coach.Email))
	return coach, nil
}

func (r *CoachRepository) CreateCoachMetrics(ctx context.Context, metrics *models.CoachMetrics) (*models.CoachMetrics, error) {
	if err := create(ctx, r.db, metrics); err != nil {
		return nil, err
	}
	logger.Log.Info("coach metrics created", zap.Uint("coach_id", metrics.CoachID))
	return metrics, nil
}

// CreateCoachWithMetrics stores a coach and its metrics atomically; metrics.CoachID
// is filled from the new coach.
func (r *CoachRepository) CreateCoachWithMetrics(ctx context.Context, coach *models.Coach, metrics *models.CoachMetrics) (*models.Coach, *models.CoachMetrics, error) {
	if err := validateModel(coach); err != nil {
		return nil, nil, err
	}
	if err := validateModel(metrics); err != nil {
		return nil, nil, err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(coach).Error; err != nil {
			return err
		}
		metrics.CoachID = coach.ID
		return tx.Create(metrics).Error
	})
	if err != nil {
		logger.Log.Warn("coach creation rolled back", zap.String("email", coach.Email), zap.Error(err))
		return nil, nil, errs.FromDB(err)
	}

	logger.Log.Info("coach created with metrics", zap.Uint("coach_id", coach.ID), zap.String("email", coach.Email))
	return coach, metrics, nil
}

func (r *CoachRepository) UpdateCoach(ctx context.Context, coachID uint, fields map[string]any) (*models.Coach, error) {
	coach, err := updateWhere[models.Coach](ctx, r.db, nil, fields, "id = ?", coachID)
	if err != nil {
		logger.Log.Warn("coach update failed", zap.Uint("coach_id", coachID), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("coach updated", zap.Uint("coach_id", coachID))
	return coach, nil
}

func (r *CoachRepository) UpdateCoachByEmail(ctx context.Context, email string, fields map[string]any) (*models.Coach, error) {
	coach, err := updateWhere[models.Coach](ctx, r.db, nil, fields, "email = ?", email)
	if err != nil {
		logger.Log.Warn("coach update failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("coach updated", zap.String("email", email))
	return coach, nil
}

func (r *CoachRepository) UpdateCoachMetrics(ctx context.Context, coachID uint, fields map[string]any) (*models.CoachMetrics, error) {
	metrics, err := updateWhere[models.CoachMetrics](ctx, r.db, coachMetricsRules, fields, "coach_id = ?", coachID)
	if err != nil {
		logger.Log.Warn("coach metrics update failed", zap.Uint("coach_id", coachID), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("coach metrics updated", zap.Uint("coach_id", coachID))
	return metrics, nil
}

// DeleteCoach removes the coach; metrics, comments, gyms, plan price and
// plan presentations go with it through cascading foreign keys.
func (r *CoachRepository) DeleteCoach(ctx context.Context, coachID uint) (*models.Coach, error) {
	coach, err := deleteWhere[models.Coach](ctx, r.db, "id = ?", coachID)
	if err != nil {
		logger.Log.Warn("coach delete failed", zap.Uint("coach_id", coachID), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("coach deleted", zap.Uint("coach_id", coach.ID), zap.String("email", coach.Email))
	return coach, nil
}

func (r *CoachRepository) GetCoach(ctx context.Context, coachID uint) (*models.Coach, error) {
	logger.Log.Info("fetching coach", zap.Uint("coach_id", coachID))
	return firstWhere[models.Coach](ctx, r.db, "id = ?", coachID)
}

func (r *CoachRepository) GetCoachByEmail(ctx context.Context, email string) (*models.Coach, error) {
	logger.Log.Info("fetching coach", zap.String("email", email))
	return firstWhere[models.Coach](ctx, r.db, "email = ?", email)
}

func (r *CoachRepository) GetCoachMetrics(ctx context.Context, coachID uint) (*models.CoachMetrics, error) {
	logger.Log.Info("fetching coach metrics", zap.Uint("coach_id", coachID))
	return firstWhere[models.CoachMetrics](ctx, r.db, "coach_id = ?", coachID)
}

// GetCoachUsers lists the users taking any workout plan the coach presents.
func (r *CoachRepository) GetCoachUsers(ctx context.Context, coachID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Select("DISTINCT users.*").
		Scopes(takingPlansPresentedBy(coachID)).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, errs.FromDB(err)
	}
	logger.Log.Info("fetched coach users", zap.Uint("coach_id", coachID), zap.Int("count", len(users)))
	return users, nil
}

// HasPresentedPlan returns one of the coach's plan presentations, or
// errs.ErrNotFound when the coach presents no plan yet.
func (r *CoachRepository) HasPresentedPlan(ctx context.Context, coachID uint) (*models.Present, error) {
	logger.Log.Info("checking presented workout plan", zap.Uint("coach_id", coachID))
	return firstWhere[models.Present](ctx, r.db, "coach_id = ?", coachID)
}

func (r *CoachRepository) GetCoachPlanPrice(ctx context.Context, coachID uint) (*models.CoachPlanPrice, error) {
	logger.Log.Info("fetching coach plan price", zap.Uint("coach_id", coachID))
	return firstWhere[models.CoachPlanPrice](ctx, r.db, "coach_id = ?", coachID)
}

func (r *CoachRepository) CreateCoachPlanPrice(ctx context.Context, price *models.CoachPlanPrice) (*models.CoachPlanPrice, error) {
	if err := create(ctx, r.db, price); err != nil {
		return nil, err
	}
	logger.Log.Info("coach plan price created", zap.Uint("coach_id", price.CoachID))
	return price, nil
}

func (r *CoachRepository) UpdateCoachPlanPrice(ctx context.Context, coachID uint, fields map[string]any) (*models.CoachPlanPrice, error) {
	price, err := updateWhere[models.CoachPlanPrice](ctx, r.db, coachPlanPriceRules, fields, "coach_id = ?", coachID)
	if err != nil {
		logger.Log.Warn("coach plan price update failed", zap.Uint("coach_id", coachID), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("coach plan price updated", zap.Uint("coach_id", coachID))
	return price, nil
}

func (r *CoachRepository) SetVerificationStatus(ctx context.Context, coachID uint, status string) (*models.Coach, error) {
	if !validVerificationStatus(status) {
		return nil, errs.Check("verification_status", fmt.Sprintf("unknown status %q", status))
	}
	return r.UpdateCoach(ctx, coachID, map[string]any{
		"verification_status": status,
		"is_verified":         status == models.VerificationVerified,
	})
}

func validVerificationStatus(status string) bool {
	switch status {
	case models.VerificationPending, models.VerificationVerified, models.VerificationRejected:
		return true
	}
	return false
}

func (r *CoachRepository) ListCoachesByVerificationStatus(ctx context.Context, status string) ([]models.Coach, error) {
	var coaches []models.Coach
	if err := r.db.WithContext(ctx).Where("verification_status = ?", status).Order("id").Find(&coaches).Error; err != nil {
		return nil, errs.FromDB(err)
	}
	return coaches, nil
}
