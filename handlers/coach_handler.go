package handlers

import (
	"context"

	"github.com/fitplan/fitplan_backend/database"
	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"github.com/fitplan/fitplan_backend/notifications"
	"github.com/fitplan/fitplan_backend/repositories"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CreatePlanRequest struct {
	Name            string                  `json:"name" validate:"required"`
	Description     *string                 `json:"description"`
	DurationMonth   *int                    `json:"duration_month"`
	Exercises       []models.Exercise       `json:"exercises"`
	MealSupplements []models.MealSupplement `json:"meal_supplements"`
}

type PlanPriceRequest struct {
	ExercisePrice int `json:"exercise_price" validate:"gte=0"`
	MealPrice     int `json:"meal_price" validate:"gte=0"`
}

type ExerciseAnswerRequest struct {
	Exercises []models.Exercise `json:"exercises" validate:"required,min=1"`
}

func GetMyCoachProfile(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	coaches := repositories.NewCoachRepository(database.DB)
	coach, err := coaches.GetCoach(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	metrics, err := coaches.GetCoachMetrics(c.UserContext(), me.ID)
	if err != nil && !errs.IsNotFound(err) {
		return err
	}
	return c.JSON(fiber.Map{"coach": coach, "metrics": metrics})
}

func UpdateMyCoachProfile(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	fields, err := parseFields(c, "user_name", "name", "phone_number", "gender", "status", "date_of_birth", "image")
	if err != nil {
		return err
	}
	coach, err := repositories.NewCoachRepository(database.DB).UpdateCoach(c.UserContext(), me.ID, fields)
	if err != nil {
		return err
	}
	return c.JSON(coach)
}

func UpdateMyCoachMetrics(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	fields, err := parseFields(c, "height", "weight", "specialization", "biography", "coaching_id", "coaching_card_image")
	if err != nil {
		return err
	}
	metrics, err := repositories.NewCoachRepository(database.DB).UpdateCoachMetrics(c.UserContext(), me.ID, fields)
	if err != nil {
		return err
	}
	return c.JSON(metrics)
}

func DeleteMyCoachAccount(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	if _, err := repositories.NewCoachRepository(database.DB).DeleteCoach(c.UserContext(), me.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ListMyCoachUsers(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	users, err := repositories.NewCoachRepository(database.DB).GetCoachUsers(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func ListOutstandingMealRequests(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	requests := repositories.NewRequestRepository(database.DB)
	users, err := requests.OutstandingMealRequestUsers(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	pending, err := requests.OutstandingMealRequests(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": users, "requests": pending})
}

func ListOutstandingExerciseRequests(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	requests := repositories.NewRequestRepository(database.DB)
	users, err := requests.OutstandingExerciseRequestUsers(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	pending, err := requests.OutstandingExerciseRequests(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": users, "requests": pending})
}

func AnswerMealRequest(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	userMealID, err := paramID(c, "userMealId")
	if err != nil {
		return err
	}
	var supplement models.MealSupplement
	if err := c.BodyParser(&supplement); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot parse JSON")
	}
	supplement.ID = 0

	answer, err := repositories.NewRequestRepository(database.DB).AnswerMealRequest(c.UserContext(), me.ID, userMealID, &supplement)
	if err != nil {
		return err
	}

	go notifyRequestAnswered(answer.Request.UserID, "meal", userMealID)
	return c.Status(fiber.StatusCreated).JSON(answer)
}

func AnswerExerciseRequest(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	userExerciseID, err := paramID(c, "userExerciseId")
	if err != nil {
		return err
	}
	var req ExerciseAnswerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	for i := range req.Exercises {
		req.Exercises[i].ID = 0
	}

	answer, err := repositories.NewRequestRepository(database.DB).AnswerExerciseRequest(c.UserContext(), me.ID, userExerciseID, req.Exercises)
	if err != nil {
		return err
	}

	go notifyRequestAnswered(answer.Request.UserID, "exercise", userExerciseID)
	return c.Status(fiber.StatusCreated).JSON(answer)
}

func notifyRequestAnswered(userID uint, kind string, requestID uint) {
	ctx := context.Background()
	user, err := repositories.NewUserRepository(database.DB).GetUser(ctx, userID)
	if err != nil {
		logger.Log.Warn("cannot notify user of answered request", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	notifications.SendRequestAnswered(ctx, user.Name, user.Email, kind, requestID)
}

func CreateMyWorkoutPlan(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	var req CreatePlanRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	plans := repositories.NewPlanRepository(database.DB)
	plan, err := plans.CreateWorkoutPlanForCoach(c.UserContext(), me.ID,
		&models.WorkoutPlan{Name: req.Name, Description: req.Description, DurationMonth: req.DurationMonth},
		req.Exercises, req.MealSupplements)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"workout_plan":     plan,
		"exercises":        req.Exercises,
		"meal_supplements": req.MealSupplements,
	})
}

func GetMyPlanPrice(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	price, err := repositories.NewCoachRepository(database.DB).GetCoachPlanPrice(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	return c.JSON(price)
}

func CreateMyPlanPrice(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	var req PlanPriceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	price, err := repositories.NewCoachRepository(database.DB).CreateCoachPlanPrice(c.UserContext(), &models.CoachPlanPrice{
		CoachID:       me.ID,
		ExercisePrice: req.ExercisePrice,
		MealPrice:     req.MealPrice,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(price)
}

func UpdateMyPlanPrice(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	fields, err := parseFields(c, "exercise_price", "meal_price")
	if err != nil {
		return err
	}
	price, err := repositories.NewCoachRepository(database.DB).UpdateCoachPlanPrice(c.UserContext(), me.ID, fields)
	if err != nil {
		return err
	}
	return c.JSON(price)
}

// ListCoachComments is public.
func ListCoachComments(c *fiber.Ctx) error {
	coachID, err := paramID(c, "coachId")
	if err != nil {
		return err
	}
	comments, err := repositories.NewCommentRepository(database.DB).ListCoachComments(c.UserContext(), coachID)
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

func CreateCoachComment(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	coachID, err := paramID(c, "coachId")
	if err != nil {
		return err
	}
	var req CommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := repositories.NewCommentRepository(database.DB).CreateCoachComment(c.UserContext(), &models.CoachComment{
		UserID:  me.ID,
		CoachID: coachID,
		Comment: req.Comment,
		Rating:  req.Rating,
		Date:    req.Date,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func DeleteCoachComment(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	coachID, err := paramID(c, "coachId")
	if err != nil {
		return err
	}
	commentID, err := paramID(c, "commentId")
	if err != nil {
		return err
	}
	if _, err := repositories.NewCommentRepository(database.DB).DeleteCoachComment(c.UserContext(), me.ID, coachID, commentID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
