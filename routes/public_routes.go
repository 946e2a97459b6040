package routes

import (
	"github.com/fitplan/fitplan_backend/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/gyms/:gymId", handlers.GetGym)
	api.Get("/gyms/:gymId/comments", handlers.ListGymComments)
	api.Get("/coaches/:coachId/comments", handlers.ListCoachComments)
	api.Get("/gym-media/:mediaId", handlers.GetGymMedia)
}
