package routes

import (
	"github.com/fitplan/fitplan_backend/handlers"
	"github.com/fitplan/fitplan_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func CoachRoutes(app *fiber.App, protected fiber.Handler) {
	api := app.Group("/api/v1")

	me := api.Group("/coach/me", protected, middleware.CoachRequired())
	me.Get("", handlers.GetMyCoachProfile)
	me.Patch("", handlers.UpdateMyCoachProfile)
	me.Delete("", handlers.DeleteMyCoachAccount)
	me.Patch("/metrics", handlers.UpdateMyCoachMetrics)
	me.Get("/users", handlers.ListMyCoachUsers)

	me.Get("/meal-requests", handlers.ListOutstandingMealRequests)
	me.Post("/meal-requests/:userMealId/answer", handlers.AnswerMealRequest)
	me.Get("/exercise-requests", handlers.ListOutstandingExerciseRequests)
	me.Post("/exercise-requests/:userExerciseId/answer", handlers.AnswerExerciseRequest)

	me.Post("/plans", handlers.CreateMyWorkoutPlan)

	me.Get("/plan-price", handlers.GetMyPlanPrice)
	me.Post("/plan-price", handlers.CreateMyPlanPrice)
	me.Patch("/plan-price", handlers.UpdateMyPlanPrice)

	me.Post("/gyms", handlers.CreateMyGym)
	me.Get("/gyms", handlers.ListMyGyms)
	me.Get("/gyms/:gymId/plan-prices", handlers.ListMyGymPlanPrices)
	me.Post("/gyms/:gymId/plan-prices", handlers.CreateMyGymPlanPrice)
	me.Patch("/gym-plan-prices/:planPriceId", handlers.UpdateMyGymPlanPrice)
	me.Delete("/gym-plan-prices/:planPriceId", handlers.DeleteMyGymPlanPrice)
}
