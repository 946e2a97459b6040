package routes

import (
	"github.com/fitplan/fitplan_backend/handlers"
	"github.com/fitplan/fitplan_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func UserRoutes(app *fiber.App, protected fiber.Handler) {
	api := app.Group("/api/v1")
	userOnly := middleware.UserRequired()

	me := api.Group("/users/me", protected, userOnly)
	me.Get("", handlers.GetMyUserProfile)
	me.Patch("", handlers.UpdateMyUserProfile)
	me.Delete("", handlers.DeleteMyUserAccount)
	me.Patch("/metrics", handlers.UpdateMyUserMetrics)

	me.Get("/plans", handlers.ListMyWorkoutPlans)
	me.Post("/plans/:planId", handlers.TakeWorkoutPlan)

	me.Post("/meal-requests", handlers.CreateMealRequest)
	me.Get("/meal-requests/:userMealId/answer", handlers.GetMealRequestAnswer)
	me.Post("/exercise-requests", handlers.CreateExerciseRequest)
	me.Get("/exercise-requests/:userExerciseId/answer", handlers.GetExerciseRequestAnswer)

	me.Get("/registrations", handlers.ListMyRegistrations)
	me.Get("/transactions", handlers.ListMyTransactions)

	api.Post("/registrations", protected, userOnly, handlers.RegisterForGymPlan)

	api.Post("/gyms/:gymId/comments", protected, userOnly, handlers.CreateGymComment)
	api.Delete("/gyms/:gymId/comments/:commentId", protected, userOnly, handlers.DeleteGymComment)
	api.Post("/coaches/:coachId/comments", protected, userOnly, handlers.CreateCoachComment)
	api.Delete("/coaches/:coachId/comments/:commentId", protected, userOnly, handlers.DeleteCoachComment)
}
