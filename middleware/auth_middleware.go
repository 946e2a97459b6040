package middleware

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleUser  = "user"
	RoleCoach = "coach"
	RoleAdmin = "admin"
)

// Identity is the authenticated principal carried by a JWT.
type Identity struct {
	ID    uint
	Email string
	Role  string
}

func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// CurrentIdentity reads the claims stored by Protected.
func CurrentIdentity(c *fiber.Ctx) (Identity, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return Identity{}, fmt.Errorf("no token in request context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fmt.Errorf("unexpected claims type %T", token.Claims)
	}

	id, err := subject(claims["sub"])
	if err != nil {
		return Identity{}, err
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return Identity{ID: id, Email: email, Role: role}, nil
}

func subject(raw any) (uint, error) {
	switch v := raw.(type) {
	case float64:
		return uint(v), nil
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid subject %q: %w", v, err)
		}
		return uint(id), nil
	default:
		return 0, fmt.Errorf("missing subject claim")
	}
}

func requireRole(role, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := CurrentIdentity(c)
		if err != nil || identity.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  "error",
				"message": message,
			})
		}
		return c.Next()
	}
}

func AdminRequired() fiber.Handler {
	return requireRole(RoleAdmin, "Forbidden: Admin access required")
}

func CoachRequired() fiber.Handler {
	return requireRole(RoleCoach, "Forbidden: Coach access required")
}

func UserRequired() fiber.Handler {
	return requireRole(RoleUser, "Forbidden: User access required")
}
