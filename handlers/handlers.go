package handlers

import (
	"errors"
	"strconv"
	"time"

	config "github.com/fitplan/fitplan_backend/configs"
	"github.com/fitplan/fitplan_backend/database"
	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/middleware"
	"github.com/fitplan/fitplan_backend/repositories"
	"github.com/fitplan/fitplan_backend/services"
	"github.com/fitplan/fitplan_backend/storage"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

var (
	jwtSecret           string
	jwtTTL              time.Duration
	cloudinaryURL       string
	mediaFolder         string
	mediaService        *services.MediaService
	registrationService *services.RegistrationService
)

// Setup wires handler dependencies. database.DB must already be connected.
// blobs may be nil when no media storage is configured.
func Setup(cfg *config.Config, blobs storage.Storage) {
	jwtSecret = cfg.JWTSecret
	jwtTTL = time.Duration(cfg.JWTTTLHours) * time.Hour
	cloudinaryURL = cfg.CloudinaryURL
	mediaFolder = cfg.MediaFolder
	mediaService = services.NewMediaService(repositories.NewMediaRepository(database.DB), blobs)
	registrationService = services.NewRegistrationService(
		repositories.NewGymRepository(database.DB),
		repositories.NewRegistrationRepository(database.DB),
	)
}

// ErrorHandler renders every handler error as {"status":"error"} with the
// status code its kind maps to.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := statusCode(err)
	message := err.Error()
	if code == fiber.StatusInternalServerError {
		logger.Log.Error("request failed", zap.String("path", c.Path()), zap.String("method", c.Method()), zap.Error(err))
		message = "Internal server error"
	}
	return c.Status(code).JSON(fiber.Map{"status": "error", "code": code, "message": message})
}

func statusCode(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, services.ErrInvalidUpload):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return errs.StatusCode(err)
	}
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

func identity(c *fiber.Ctx) (middleware.Identity, error) {
	id, err := middleware.CurrentIdentity(c)
	if err != nil {
		return middleware.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot parse JSON")
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// parseFields decodes a partial update and keeps only the allowed columns.
func parseFields(c *fiber.Ctx, allowed ...string) (map[string]any, error) {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot parse JSON")
	}
	fields := make(map[string]any, len(allowed))
	for _, column := range allowed {
		if value, ok := body[column]; ok {
			fields[column] = value
		}
	}
	if len(fields) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "no updatable fields provided")
	}
	return fields, nil
}
