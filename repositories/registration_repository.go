package repositories

import (
	"context"

	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var registrationRules = fieldRules{
	"registered_sessions": nonNegativeRule,
	"registered_days":     nonNegativeRule,
	"remaining_sessions":  nonNegativeRule,
	"remaining_days":      nonNegativeRule,
}

type RegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// CreateRegistration persists the balances exactly as given.
func (r *RegistrationRepository) CreateRegistration(ctx context.Context, registration *models.UserGymRegistration) (*models.UserGymRegistration, error) {
	if err := create(ctx, r.db, registration); err != nil {
		return nil, err
	}
	logger.Log.Info("gym registration created",
		zap.Uint("registration_id", registration.ID),
		zap.Uint("user_id", registration.UserID),
		zap.Uint("gym_id", registration.GymID))
	return registration, nil
}

func (r *RegistrationRepository) GetRegistration(ctx context.Context, registrationID uint) (*models.UserGymRegistration, error) {
	logger.Log.Info("fetching gym registration", zap.Uint("registration_id", registrationID))
	return firstWhere[models.UserGymRegistration](ctx, r.db, "id = ?", registrationID)
}

func (r *RegistrationRepository) ListUserRegistrations(ctx context.Context, userID uint) ([]models.UserGymRegistration, error) {
	var registrations []models.UserGymRegistration
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&registrations).Error; err != nil {
		return nil, errs.FromDB(err)
	}
	return registrations, nil
}

func (r *RegistrationRepository) UpdateRegistration(ctx context.Context, registrationID uint, fields map[string]any) (*models.UserGymRegistration, error) {
	registration, err := updateWhere[models.UserGymRegistration](ctx, r.db, registrationRules, fields, "id = ?", registrationID)
	if err != nil {
		logger.Log.Warn("gym registration update failed", zap.Uint("registration_id", registrationID), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("gym registration updated", zap.Uint("registration_id", registrationID))
	return registration, nil
}

// ListActiveRegistrations returns every registration not yet flagged expired.
func (r *RegistrationRepository) ListActiveRegistrations(ctx context.Context) ([]models.UserGymRegistration, error) {
	var registrations []models.UserGymRegistration
	if err := r.db.WithContext(ctx).Where("is_expired = ?", false).Order("id").Find(&registrations).Error; err != nil {
		return nil, errs.FromDB(err)
	}
	return registrations, nil
}

// CreatePaidRegistration stores a registration together with the ledger entry
// that paid for it.
func (r *RegistrationRepository) CreatePaidRegistration(ctx context.Context, registration *models.UserGymRegistration, entry *models.TransactionLog) (*models.UserGymRegistration, *models.TransactionLog, error) {
	if err := validateModel(registration); err != nil {
		return nil, nil, err
	}
	if err := validateTransaction(entry); err != nil {
		return nil, nil, err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(registration).Error; err != nil {
			return err
		}
		return createTransaction(tx, registration.UserID, entry)
	})
	if err != nil {
		logger.Log.Warn("paid registration rolled back", zap.Uint("user_id", registration.UserID), zap.Uint("gym_id", registration.GymID), zap.Error(err))
		return nil, nil, errs.FromDB(err)
	}

	logger.Log.Info("paid registration created",
		zap.Uint("registration_id", registration.ID),
		zap.Uint("transaction_id", entry.ID),
		zap.Uint("user_id", registration.UserID))
	return registration, entry, nil
}
