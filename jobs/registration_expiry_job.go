package jobs

import (
	"context"
	"time"

	"github.com/fitplan/fitplan_backend/database"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"github.com/fitplan/fitplan_backend/repositories"
	"go.uber.org/zap"
)

const jobTimeout = 5 * time.Minute

type registrationStore interface {
	ListActiveRegistrations(ctx context.Context) ([]models.UserGymRegistration, error)
	UpdateRegistration(ctx context.Context, registrationID uint, fields map[string]any) (*models.UserGymRegistration, error)
}

// ExpireRegistrations consumes a day of every active gym registration and
// flags the ones that ran out.
func ExpireRegistrations() {
	logger.Log.Info("running job", zap.String("job", "expire_registrations"))

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	expired, err := sweepRegistrations(ctx, repositories.NewRegistrationRepository(database.DB), time.Now())
	if err != nil {
		logger.Log.Error("registration expiry job failed", zap.Error(err))
		return
	}
	if expired == 0 {
		logger.Log.Info("no registrations expired")
		return
	}
	logger.Log.Info("registrations marked as expired", zap.Int("count", expired))
}

// sweepRegistrations applies one day of usage to every active registration
// and returns how many became expired. A failed row is logged and skipped.
func sweepRegistrations(ctx context.Context, store registrationStore, now time.Time) (int, error) {
	registrations, err := store.ListActiveRegistrations(ctx)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, registration := range registrations {
		fields := nextDay(registration)
		if len(fields) == 0 {
			continue
		}
		fields["updated_at"] = now
		if _, err := store.UpdateRegistration(ctx, registration.ID, fields); err != nil {
			logger.Log.Error("registration sweep failed", zap.Uint("registration_id", registration.ID), zap.Error(err))
			continue
		}
		if fields["is_expired"] == true {
			expired++
		}
	}
	return expired, nil
}

// nextDay returns the columns that change after one more day. Limits of zero
// are unlimited: a plan without days never runs out of days, and one without
// sessions never runs out of sessions.
func nextDay(registration models.UserGymRegistration) map[string]any {
	fields := map[string]any{}
	remainingDays := registration.RemainingDays
	if registration.RegisteredDays > 0 && remainingDays > 0 {
		remainingDays--
		fields["remaining_days"] = remainingDays
	}

	daysUsed := registration.RegisteredDays > 0 && remainingDays == 0
	sessionsUsed := registration.RegisteredSessions > 0 && registration.RemainingSessions == 0
	if daysUsed || sessionsUsed {
		fields["is_expired"] = true
	}
	return fields
}
