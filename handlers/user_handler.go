package handlers

import (
	"fmt"

	"github.com/fitplan/fitplan_backend/database"
	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/models"
	"github.com/fitplan/fitplan_backend/repositories"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type RequestPayload struct {
	Weight decimal.Decimal `json:"weight"`
	Waist  decimal.Decimal `json:"waist"`
	Type   string          `json:"type" validate:"required,max=10"`
	Price  decimal.Decimal `json:"price"`
	Image  *string         `json:"image"`
}

func GetMyUserProfile(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	users := repositories.NewUserRepository(database.DB)
	user, err := users.GetUser(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	metrics, err := users.GetUserMetrics(c.UserContext(), me.ID)
	if err != nil && !errs.IsNotFound(err) {
		return err
	}
	return c.JSON(fiber.Map{"user": user, "metrics": metrics})
}

func UpdateMyUserProfile(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	fields, err := parseFields(c, "user_name", "name", "phone_number", "gender", "date_of_birth", "image")
	if err != nil {
		return err
	}
	user, err := repositories.NewUserRepository(database.DB).UpdateUser(c.UserContext(), me.ID, fields)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func UpdateMyUserMetrics(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	fields, err := parseFields(c, "height", "weight", "waist", "injuries")
	if err != nil {
		return err
	}
	metrics, err := repositories.NewUserRepository(database.DB).UpdateUserMetrics(c.UserContext(), me.ID, fields)
	if err != nil {
		return err
	}
	return c.JSON(metrics)
}

func DeleteMyUserAccount(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	if _, err := repositories.NewUserRepository(database.DB).DeleteUser(c.UserContext(), me.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func TakeWorkoutPlan(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	planID, err := paramID(c, "planId")
	if err != nil {
		return err
	}

	plans := repositories.NewPlanRepository(database.DB)
	if _, err := plans.GetWorkoutPlan(c.UserContext(), planID); err != nil {
		return err
	}
	take, err := plans.CreateTake(c.UserContext(), me.ID, planID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(take)
}

func ListMyWorkoutPlans(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	plans, err := repositories.NewUserRepository(database.DB).ListUserPlans(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	return c.JSON(plans)
}

func CreateMealRequest(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	var req RequestPayload
	if err := parseBody(c, &req); err != nil {
		return err
	}
	meal, err := repositories.NewRequestRepository(database.DB).CreateMealRequest(c.UserContext(), me.ID, &models.UserMeal{
		Weight: req.Weight,
		Waist:  req.Waist,
		Type:   req.Type,
		Price:  req.Price,
		Image:  req.Image,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(meal)
}

func CreateExerciseRequest(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	var req RequestPayload
	if err := parseBody(c, &req); err != nil {
		return err
	}
	exercise, err := repositories.NewRequestRepository(database.DB).CreateExerciseRequest(c.UserContext(), me.ID, &models.UserExercise{
		Weight: req.Weight,
		Waist:  req.Waist,
		Type:   req.Type,
		Price:  req.Price,
		Image:  req.Image,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(exercise)
}

// GetMealRequestAnswer reports whether the user's meal request is answered,
// including the meal plan once it is.
func GetMealRequestAnswer(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	userMealID, err := paramID(c, "userMealId")
	if err != nil {
		return err
	}

	requests := repositories.NewRequestRepository(database.DB)
	request, err := requests.GetMealRequest(c.UserContext(), userMealID)
	if err != nil {
		return err
	}
	if request.UserID != me.ID {
		return fmt.Errorf("meal request %d: %w", userMealID, errs.ErrPermissionDenied)
	}

	answer, err := requests.MealRequestAnswer(c.UserContext(), userMealID)
	if errs.IsNotFound(err) {
		return c.JSON(fiber.Map{"answered": false})
	}
	if err != nil {
		return err
	}

	supplement, err := repositories.NewPlanRepository(database.DB).GetMealSupplement(c.UserContext(), answer.MealSupplementID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"answered": true, "answer": answer, "meal_supplement": supplement})
}

func GetExerciseRequestAnswer(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	userExerciseID, err := paramID(c, "userExerciseId")
	if err != nil {
		return err
	}

	requests := repositories.NewRequestRepository(database.DB)
	request, err := requests.GetExerciseRequest(c.UserContext(), userExerciseID)
	if err != nil {
		return err
	}
	if request.UserID != me.ID {
		return fmt.Errorf("exercise request %d: %w", userExerciseID, errs.ErrPermissionDenied)
	}

	answers, err := requests.ExerciseRequestAnswers(c.UserContext(), userExerciseID)
	if errs.IsNotFound(err) {
		return c.JSON(fiber.Map{"answered": false})
	}
	if err != nil {
		return err
	}

	ids := make([]uint, len(answers))
	for i, answer := range answers {
		ids[i] = answer.ExerciseID
	}
	exercises, err := repositories.NewPlanRepository(database.DB).ListExercises(c.UserContext(), ids)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"answered": true, "answers": answers, "exercises": exercises})
}

func ListMyRegistrations(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	registrations, err := repositories.NewRegistrationRepository(database.DB).ListUserRegistrations(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	return c.JSON(registrations)
}

func ListMyTransactions(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	entries, err := repositories.NewTransactionRepository(database.DB).ListUserTransactions(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func RegisterForGymPlan(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	var req struct {
		PlanPriceID uint `json:"plan_price_id" validate:"required"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	registration, entry, err := registrationService.Register(c.UserContext(), me.ID, req.PlanPriceID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"registration": registration, "transaction": entry})
}
