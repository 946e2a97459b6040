package handlers

import (
	"context"
	"time"

	"github.com/fitplan/fitplan_backend/database"
	"github.com/fitplan/fitplan_backend/middleware"
	"github.com/fitplan/fitplan_backend/models"
	"github.com/fitplan/fitplan_backend/notifications"
	"github.com/fitplan/fitplan_backend/repositories"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type RegisterUserRequest struct {
	UserName    string              `json:"user_name" validate:"required"`
	Name        string              `json:"name" validate:"required"`
	Email       string              `json:"email" validate:"required,email"`
	Password    string              `json:"password" validate:"required,min=6"`
	PhoneNumber *string             `json:"phone_number"`
	Gender      *string             `json:"gender"`
	DateOfBirth *string             `json:"date_of_birth"`
	Height      decimal.NullDecimal `json:"height"`
	Weight      decimal.NullDecimal `json:"weight"`
	Waist       decimal.NullDecimal `json:"waist"`
	Injuries    *string             `json:"injuries"`
}

type RegisterCoachRequest struct {
	UserName       string              `json:"user_name" validate:"required"`
	Name           string              `json:"name" validate:"required"`
	Email          string              `json:"email" validate:"required,email"`
	Password       string              `json:"password" validate:"required,min=6"`
	PhoneNumber    string              `json:"phone_number" validate:"required"`
	Gender         *string             `json:"gender"`
	DateOfBirth    *string             `json:"date_of_birth"`
	CoachingID     string              `json:"coaching_id" validate:"required"`
	Specialization *string             `json:"specialization"`
	Biography      *string             `json:"biography"`
	Height         decimal.NullDecimal `json:"height"`
	Weight         decimal.NullDecimal `json:"weight"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=user coach admin"`
}

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user, metrics, err := repositories.NewUserRepository(database.DB).CreateUserWithMetrics(c.UserContext(),
		&models.User{
			UserName:    req.UserName,
			Name:        req.Name,
			Email:       req.Email,
			Password:    string(hashedPassword),
			PhoneNumber: req.PhoneNumber,
			Gender:      req.Gender,
			DateOfBirth: req.DateOfBirth,
		},
		&models.UserMetrics{Height: req.Height, Weight: req.Weight, Waist: req.Waist, Injuries: req.Injuries},
	)
	if err != nil {
		return err
	}

	go notifications.SendEmail(context.Background(), user.Name, user.Email, "Welcome to FitPlan!", "<h1>Welcome!</h1><p>Thank you for registering.</p>")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "metrics": metrics})
}

func RegisterCoach(c *fiber.Ctx) error {
	var req RegisterCoachRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	coach, metrics, err := repositories.NewCoachRepository(database.DB).CreateCoachWithMetrics(c.UserContext(),
		&models.Coach{
			UserName:           req.UserName,
			Name:               req.Name,
			Email:              req.Email,
			Password:           string(hashedPassword),
			PhoneNumber:        req.PhoneNumber,
			Gender:             req.Gender,
			DateOfBirth:        req.DateOfBirth,
			VerificationStatus: models.VerificationPending,
		},
		&models.CoachMetrics{
			CoachingID:     req.CoachingID,
			Specialization: req.Specialization,
			Biography:      req.Biography,
			Height:         req.Height,
			Weight:         req.Weight,
		},
	)
	if err != nil {
		return err
	}

	go notifications.SendEmail(context.Background(), coach.Name, coach.Email, "Welcome to FitPlan!", "<h1>Welcome, coach!</h1><p>Your profile is waiting for verification.</p>")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"coach": coach, "metrics": metrics})
}

func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	id, hash, err := credentials(c.UserContext(), req.Role, req.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")
	}

	token, err := issueToken(id, req.Email, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token})
}

func credentials(ctx context.Context, role, email string) (uint, string, error) {
	switch role {
	case middleware.RoleCoach:
		coach, err := repositories.NewCoachRepository(database.DB).GetCoachByEmail(ctx, email)
		if err != nil {
			return 0, "", err
		}
		return coach.ID, coach.Password, nil
	case middleware.RoleAdmin:
		var admin models.Admin
		if err := database.DB.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
			return 0, "", err
		}
		return admin.ID, admin.Password, nil
	default:
		user, err := repositories.NewUserRepository(database.DB).GetUserByEmail(ctx, email)
		if err != nil {
			return 0, "", err
		}
		return user.ID, user.Password, nil
	}
}

func issueToken(id uint, email, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   id,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(jwtTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
}
