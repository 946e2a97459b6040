package repositories

import (
	"github.com/fitplan/fitplan_backend/models"
	"gorm.io/gorm"
)

// takingPlansPresentedBy restricts a users query to users taking a workout
// plan presented by the coach (users → take → workout_plan → present).
func takingPlansPresentedBy(coachID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN take ON take.user_id = users.id").
			Joins("JOIN workout_plan ON workout_plan.id = take.workout_plan_id").
			Joins("JOIN present ON present.workout_plan_id = workout_plan.id").
			Where("present.coach_id = ?", coachID)
	}
}

// unansweredMealRequests joins each user to their meal requests that have no
// row in user_meal_meal_supplement.
func unansweredMealRequests(db *gorm.DB) *gorm.DB {
	return db.
		Joins("JOIN user_request_meal ON user_request_meal.user_id = users.id").
		Joins("JOIN user_meal ON user_meal.id = user_request_meal.user_meal_id").
		Joins("LEFT JOIN user_meal_meal_supplement ON user_meal_meal_supplement.user_meal_id = user_meal.id").
		Where("user_meal_meal_supplement.user_meal_id IS NULL")
}

// unansweredExerciseRequests is the exercise counterpart of unansweredMealRequests.
func unansweredExerciseRequests(db *gorm.DB) *gorm.DB {
	return db.
		Joins("JOIN user_request_exercise ON user_request_exercise.user_id = users.id").
		Joins("JOIN user_exercise ON user_exercise.id = user_request_exercise.user_exercise_id").
		Joins("LEFT JOIN user_exercise_exercise ON user_exercise_exercise.user_exercise_id = user_exercise.id").
		Where("user_exercise_exercise.user_exercise_id IS NULL")
}

func verifiedGyms(db *gorm.DB) *gorm.DB {
	return db.Where("gym.verification_status = ?", models.VerificationVerified)
}
