package jobs

import (
	"context"
	"fmt"
	"html"

	"github.com/fitplan/fitplan_backend/database"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"github.com/fitplan/fitplan_backend/notifications"
	"github.com/fitplan/fitplan_backend/repositories"
	"go.uber.org/zap"
)

const reminderSubject = "You have requests waiting for an answer"

// RemindCoachesOfOutstandingRequests emails every verified coach that still
// has unanswered meal or exercise requests.
func RemindCoachesOfOutstandingRequests() {
	logger.Log.Info("running job", zap.String("job", "outstanding_request_reminders"))

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	coaches, err := repositories.NewCoachRepository(database.DB).ListCoachesByVerificationStatus(ctx, models.VerificationVerified)
	if err != nil {
		logger.Log.Error("failed to load coaches for reminders", zap.Error(err))
		return
	}

	requests := repositories.NewRequestRepository(database.DB)
	reminded := 0
	for _, coach := range coaches {
		meals, err := requests.OutstandingMealRequests(ctx, coach.ID)
		if err != nil {
			logger.Log.Error("failed to count meal requests", zap.Uint("coach_id", coach.ID), zap.Error(err))
			continue
		}
		exercises, err := requests.OutstandingExerciseRequests(ctx, coach.ID)
		if err != nil {
			logger.Log.Error("failed to count exercise requests", zap.Uint("coach_id", coach.ID), zap.Error(err))
			continue
		}
		if len(meals) == 0 && len(exercises) == 0 {
			continue
		}

		notifications.SendEmail(ctx, coach.Name, coach.Email, reminderSubject, reminderBody(coach.Name, len(meals), len(exercises)))
		reminded++
	}

	logger.Log.Info("outstanding request reminders sent", zap.Int("coaches", reminded))
}

func reminderBody(coachName string, meals, exercises int) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>%d meal and %d exercise request(s) from your users are still waiting.</p>",
		html.EscapeString(coachName), meals, exercises,
	)
}
