package services

import (
	"context"
	"testing"
	"time"

	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlanPrices map[uint]*models.GymPlanPrice

func (s stubPlanPrices) GetVerifiedGymPlanPrice(_ context.Context, planPriceID uint) (*models.GymPlanPrice, error) {
	price, ok := s[planPriceID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return price, nil
}

type stubRegistrations struct {
	registration *models.UserGymRegistration
	entry        *models.TransactionLog
}

func (s *stubRegistrations) CreatePaidRegistration(_ context.Context, registration *models.UserGymRegistration, entry *models.TransactionLog) (*models.UserGymRegistration, *models.TransactionLog, error) {
	s.registration = registration
	s.entry = entry
	return registration, entry, nil
}

func TestRegisterStartsWithFullBalanceAndCompletedEntry(t *testing.T) {
	prices := stubPlanPrices{4: {ID: 4, GymID: 2, SessionCounts: 12, DurationDays: 30, IsVIP: true, Price: 150}}
	store := &stubRegistrations{}
	svc := NewRegistrationService(prices, store)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }

	registration, entry, err := svc.Register(context.Background(), 9, 4)
	require.NoError(t, err)

	assert.Equal(t, uint(9), registration.UserID)
	assert.Equal(t, uint(2), registration.GymID)
	require.NotNil(t, registration.GymPlanPriceID)
	assert.Equal(t, uint(4), *registration.GymPlanPriceID)
	assert.Equal(t, 12, registration.RegisteredSessions)
	assert.Equal(t, 12, registration.RemainingSessions)
	assert.Equal(t, 30, registration.RegisteredDays)
	assert.Equal(t, 30, registration.RemainingDays)
	assert.True(t, registration.IsVIP)
	require.NotNil(t, registration.Date)
	assert.Equal(t, "2026-03-01T08:00:00Z", *registration.Date)

	assert.True(t, decimal.NewFromInt(150).Equal(entry.Amount))
	assert.Equal(t, models.TransactionCompleted, entry.Status)
	assert.Equal(t, "gym registration", entry.Reason)
	assert.Same(t, entry, store.entry)
}

func TestRegisterUnknownPlanWritesNothing(t *testing.T) {
	store := &stubRegistrations{}
	svc := NewRegistrationService(stubPlanPrices{}, store)

	_, _, err := svc.Register(context.Background(), 9, 99)
	assert.True(t, errs.IsNotFound(err))
	assert.Nil(t, store.registration)
}
