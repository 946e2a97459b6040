package routes

import (
	"github.com/fitplan/fitplan_backend/handlers"
	"github.com/fitplan/fitplan_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App, protected fiber.Handler) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", protected, middleware.AdminRequired())

	admin.Get("/coaches/pending", handlers.ListPendingCoaches)
	admin.Put("/coaches/:coachId/verification", handlers.SetCoachVerification)

	admin.Get("/gyms/pending", handlers.ListPendingGyms)
	admin.Put("/gyms/:gymId/verification", handlers.SetGymVerification)

	admin.Delete("/users/:userId", handlers.AdminDeleteUser)
}
