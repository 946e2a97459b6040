package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	gymRules          = fieldRules{"rating": ratingRule}
	gymPlanPriceRules = fieldRules{
		"session_counts": nonNegativeRule,
		"duration_days":  nonNegativeRule,
		"price":          nonNegativeRule,
	}
)

type GymRepository struct {
	db *gorm.DB
}

func NewGymRepository(db *gorm.DB) *GymRepository {
	return &GymRepository{db: db}
}

// CreateGym registers a gym for its owner. New gyms wait for admin
// verification regardless of the status they were submitted with.
func (r *GymRepository) CreateGym(ctx context.Context, gym *models.Gym) (*models.Gym, error) {
	gym.VerificationStatus = models.VerificationPending
	if err := create(ctx, r.db, gym); err != nil {
		return nil, err
	}
	logger.Log.Info("gym created", zap.Uint("gym_id", gym.ID), zap.Uint("owner_id", gym.OwnerID))
	return gym, nil
}

// CreateGymWithOwner registers a pending gym and links its owner as one of
// its coaches in a single transaction.
func (r *GymRepository) CreateGymWithOwner(ctx context.Context, gym *models.Gym, coachID uint) (*models.Gym, error) {
	gym.OwnerID = coachID
	gym.VerificationStatus = models.VerificationPending
	if err := validateModel(gym); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(gym).Error; err != nil {
			return err
		}
		return tx.Create(&models.CoachGym{CoachID: coachID, GymID: gym.ID}).Error
	})
	if err != nil {
		logger.Log.Warn("gym creation rolled back", zap.Uint("owner_id", coachID), zap.Error(err))
		return nil, errs.FromDB(err)
	}

	logger.Log.Info("gym created with owner", zap.Uint("gym_id", gym.ID), zap.Uint("owner_id", coachID))
	return gym, nil
}

func (r *GymRepository) AddCoach(ctx context.Context, coachID, gymID uint) (*models.CoachGym, error) {
	link := &models.CoachGym{CoachID: coachID, GymID: gymID}
	if err := create(ctx, r.db, link); err != nil {
		return nil, err
	}
	logger.Log.Info("coach added to gym", zap.Uint("coach_id", coachID), zap.Uint("gym_id", gymID))
	return link, nil
}

// ListOwnedVerifiedGyms returns the verified gyms the coach owns.
func (r *GymRepository) ListOwnedVerifiedGyms(ctx context.Context, coachID uint) ([]models.Gym, error) {
	var gyms []models.Gym
	err := r.db.WithContext(ctx).
		Scopes(verifiedGyms).
		Where("gym.owner_id = ?", coachID).
		Order("gym.id").
		Find(&gyms).Error
	if err != nil {
		return nil, errs.FromDB(err)
	}
	logger.Log.Info("fetched owned gyms", zap.Uint("coach_id", coachID), zap.Int("count", len(gyms)))
	return gyms, nil
}

// GetVerifiedGym returns the gym only once an admin has verified it.
func (r *GymRepository) GetVerifiedGym(ctx context.Context, gymID uint) (*models.Gym, error) {
	logger.Log.Info("fetching verified gym", zap.Uint("gym_id", gymID))
	var gym models.Gym
	if err := r.db.WithContext(ctx).Scopes(verifiedGyms).Where("gym.id = ?", gymID).First(&gym).Error; err != nil {
		return nil, errs.FromDB(err)
	}
	return &gym, nil
}

func (r *GymRepository) GetGym(ctx context.Context, gymID uint) (*models.Gym, error) {
	return firstWhere[models.Gym](ctx, r.db, "id = ?", gymID)
}

// ListVerifiedGymPlanPrices lists the plan prices of a verified gym owned by
// the coach. Unverified or foreign gyms yield an empty list.
func (r *GymRepository) ListVerifiedGymPlanPrices(ctx context.Context, coachID, gymID uint) ([]models.GymPlanPrice, error) {
	var prices []models.GymPlanPrice
	err := r.db.WithContext(ctx).
		Joins("JOIN gym ON gym.id = gym_plan_price.gym_id").
		Joins("JOIN coach ON coach.id = gym.owner_id").
		Scopes(verifiedGyms).
		Where("coach.id = ? AND gym.id = ?", coachID, gymID).
		Order("gym_plan_price.id").
		Find(&prices).Error
	if err != nil {
		return nil, errs.FromDB(err)
	}
	logger.Log.Info("fetched gym plan prices", zap.Uint("coach_id", coachID), zap.Uint("gym_id", gymID), zap.Int("count", len(prices)))
	return prices, nil
}

// CreateGymPlanPrice adds a price to a gym, provided the gym is verified and
// owned by the coach. Otherwise the gym is reported as not found.
func (r *GymRepository) CreateGymPlanPrice(ctx context.Context, coachID uint, price *models.GymPlanPrice) (*models.GymPlanPrice, error) {
	if err := validateModel(price); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var gym models.Gym
		err := tx.Scopes(verifiedGyms).
			Where("gym.id = ? AND gym.owner_id = ?", price.GymID, coachID).
			First(&gym).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("verified gym %d of coach %d: %w", price.GymID, coachID, errs.ErrNotFound)
		}
		if err != nil {
			return err
		}
		return tx.Create(price).Error
	})
	if err != nil {
		logger.Log.Warn("gym plan price creation failed", zap.Uint("coach_id", coachID), zap.Uint("gym_id", price.GymID), zap.Error(err))
		return nil, errs.FromDB(err)
	}

	logger.Log.Info("gym plan price created", zap.Uint("gym_plan_price_id", price.ID), zap.Uint("gym_id", price.GymID))
	return price, nil
}

func (r *GymRepository) GetGymPlanPrice(ctx context.Context, planPriceID uint) (*models.GymPlanPrice, error) {
	logger.Log.Info("fetching gym plan price", zap.Uint("gym_plan_price_id", planPriceID))
	return firstWhere[models.GymPlanPrice](ctx, r.db, "id = ?", planPriceID)
}

// GetVerifiedGymPlanPrice resolves a plan price only through a verified gym.
func (r *GymRepository) GetVerifiedGymPlanPrice(ctx context.Context, planPriceID uint) (*models.GymPlanPrice, error) {
	logger.Log.Info("fetching verified gym plan price", zap.Uint("gym_plan_price_id", planPriceID))
	var price models.GymPlanPrice
	err := r.db.WithContext(ctx).
		Joins("JOIN gym ON gym.id = gym_plan_price.gym_id").
		Scopes(verifiedGyms).
		Where("gym_plan_price.id = ?", planPriceID).
		First(&price).Error
	if err != nil {
		return nil, errs.FromDB(err)
	}
	return &price, nil
}

func (r *GymRepository) UpdateGymPlanPrice(ctx context.Context, planPriceID uint, fields map[string]any) (*models.GymPlanPrice, error) {
	price, err := updateWhere[models.GymPlanPrice](ctx, r.db, gymPlanPriceRules, fields, "id = ?", planPriceID)
	if err != nil {
		logger.Log.Warn("gym plan price update failed", zap.Uint("gym_plan_price_id", planPriceID), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("gym plan price updated", zap.Uint("gym_plan_price_id", planPriceID))
	return price, nil
}

func (r *GymRepository) DeleteGymPlanPrice(ctx context.Context, planPriceID uint) (*models.GymPlanPrice, error) {
	price, err := deleteWhere[models.GymPlanPrice](ctx, r.db, "id = ?", planPriceID)
	if err != nil {
		logger.Log.Warn("gym plan price delete failed", zap.Uint("gym_plan_price_id", planPriceID), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("gym plan price deleted", zap.Uint("gym_plan_price_id", planPriceID), zap.Uint("gym_id", price.GymID))
	return price, nil
}

func (r *GymRepository) UpdateGym(ctx context.Context, gymID uint, fields map[string]any) (*models.Gym, error) {
	gym, err := updateWhere[models.Gym](ctx, r.db, gymRules, fields, "id = ?", gymID)
	if err != nil {
		logger.Log.Warn("gym update failed", zap.Uint("gym_id", gymID), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("gym updated", zap.Uint("gym_id", gymID))
	return gym, nil
}

func (r *GymRepository) SetVerificationStatus(ctx context.Context, gymID uint, status string) (*models.Gym, error) {
	if !validVerificationStatus(status) {
		return nil, errs.Check("verification_status", fmt.Sprintf("unknown status %q", status))
	}
	return r.UpdateGym(ctx, gymID, map[string]any{"verification_status": status})
}

func (r *GymRepository) ListGymsByVerificationStatus(ctx context.Context, status string) ([]models.Gym, error) {
	var gyms []models.Gym
	if err := r.db.WithContext(ctx).Where("verification_status = ?", status).Order("id").Find(&gyms).Error; err != nil {
		return nil, errs.FromDB(err)
	}
	return gyms, nil
}
