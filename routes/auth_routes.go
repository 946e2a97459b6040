package routes

import (
	"github.com/fitplan/fitplan_backend/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/users/register", handlers.RegisterUser)
	auth.Post("/coaches/register", handlers.RegisterCoach)
	auth.Post("/login", handlers.Login)
}
