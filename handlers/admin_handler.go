package handlers

import (
	"context"

	"github.com/fitplan/fitplan_backend/database"
	"github.com/fitplan/fitplan_backend/models"
	"github.com/fitplan/fitplan_backend/notifications"
	"github.com/fitplan/fitplan_backend/repositories"
	"github.com/gofiber/fiber/v2"
)

type VerificationRequest struct {
	Status string `json:"status" validate:"required,oneof=pending verified rejected"`
}

func ListPendingCoaches(c *fiber.Ctx) error {
	coaches, err := repositories.NewCoachRepository(database.DB).ListCoachesByVerificationStatus(c.UserContext(), models.VerificationPending)
	if err != nil {
		return err
	}
	return c.JSON(coaches)
}

func ListPendingGyms(c *fiber.Ctx) error {
	gyms, err := repositories.NewGymRepository(database.DB).ListGymsByVerificationStatus(c.UserContext(), models.VerificationPending)
	if err != nil {
		return err
	}
	return c.JSON(gyms)
}

func SetCoachVerification(c *fiber.Ctx) error {
	coachID, err := paramID(c, "coachId")
	if err != nil {
		return err
	}
	var req VerificationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	coach, err := repositories.NewCoachRepository(database.DB).SetVerificationStatus(c.UserContext(), coachID, req.Status)
	if err != nil {
		return err
	}

	switch req.Status {
	case models.VerificationVerified:
		go notifications.SendEmail(context.Background(), coach.Name, coach.Email,
			"Your coach profile has been verified!",
			"<h1>Congratulations!</h1><p>Your coach profile has been verified. You can now publish workout plans.</p>")
	case models.VerificationRejected:
		go notifications.SendEmail(context.Background(), coach.Name, coach.Email,
			"Update on your coach profile",
			"<h1>Profile Update</h1><p>After review, your coach profile was not verified at this time.</p>")
	}
	return c.JSON(coach)
}

func SetGymVerification(c *fiber.Ctx) error {
	gymID, err := paramID(c, "gymId")
	if err != nil {
		return err
	}
	var req VerificationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	gym, err := repositories.NewGymRepository(database.DB).SetVerificationStatus(c.UserContext(), gymID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(gym)
}

func AdminDeleteUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	if _, err := repositories.NewUserRepository(database.DB).DeleteUser(c.UserContext(), userID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
