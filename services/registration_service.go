package services

import (
	"context"
	"time"

	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const registrationReason = "gym registration"

type planPriceReader interface {
	GetVerifiedGymPlanPrice(ctx context.Context, planPriceID uint) (*models.GymPlanPrice, error)
}

type registrationStore interface {
	CreatePaidRegistration(ctx context.Context, registration *models.UserGymRegistration, entry *models.TransactionLog) (*models.UserGymRegistration, *models.TransactionLog, error)
}

type RegistrationService struct {
	prices        planPriceReader
	registrations registrationStore
	now           func() time.Time
}

func NewRegistrationService(prices planPriceReader, registrations registrationStore) *RegistrationService {
	return &RegistrationService{prices: prices, registrations: registrations, now: time.Now}
}

// Register buys a gym plan for the user: the registration starts with the
// plan's full balance and is paid by a completed ledger entry.
func (s *RegistrationService) Register(ctx context.Context, userID, planPriceID uint) (*models.UserGymRegistration, *models.TransactionLog, error) {
	price, err := s.prices.GetVerifiedGymPlanPrice(ctx, planPriceID)
	if err != nil {
		logger.Log.Warn("registration plan unavailable", zap.Uint("user_id", userID), zap.Uint("gym_plan_price_id", planPriceID), zap.Error(err))
		return nil, nil, err
	}

	date := s.now().UTC().Format(time.RFC3339)
	planID := price.ID
	registration := &models.UserGymRegistration{
		UserID:             userID,
		GymID:              price.GymID,
		GymPlanPriceID:     &planID,
		RegisteredSessions: price.SessionCounts,
		RegisteredDays:     price.DurationDays,
		RemainingSessions:  price.SessionCounts,
		RemainingDays:      price.DurationDays,
		IsVIP:              price.IsVIP,
		Date:               &date,
	}
	entry := &models.TransactionLog{
		Amount: decimal.NewFromInt(int64(price.Price)),
		Reason: registrationReason,
		Status: models.TransactionCompleted,
		Date:   date,
	}

	return s.registrations.CreatePaidRegistration(ctx, registration, entry)
}
