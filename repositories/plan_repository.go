package repositories

import (
	"context"

	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) CreateWorkoutPlan(ctx context.Context, plan *models.WorkoutPlan) (*models.WorkoutPlan, error) {
	if err := create(ctx, r.db, plan); err != nil {
		return nil, err
	}
	logger.Log.Info("workout plan created", zap.Uint("workout_plan_id", plan.ID))
	return plan, nil
}

func (r *PlanRepository) GetWorkoutPlan(ctx context.Context, planID uint) (*models.WorkoutPlan, error) {
	logger.Log.Info("fetching workout plan", zap.Uint("workout_plan_id", planID))
	return firstWhere[models.WorkoutPlan](ctx, r.db, "id = ?", planID)
}

func (r *PlanRepository) CreatePresent(ctx context.Context, coachID, planID uint) (*models.Present, error) {
	present := &models.Present{CoachID: coachID, WorkoutPlanID: planID}
	if err := create(ctx, r.db, present); err != nil {
		return nil, err
	}
	logger.Log.Info("workout plan presented", zap.Uint("coach_id", coachID), zap.Uint("workout_plan_id", planID))
	return present, nil
}

// CreateTake enrols a user in a workout plan.
func (r *PlanRepository) CreateTake(ctx context.Context, userID, planID uint) (*models.Take, error) {
	take := &models.Take{UserID: userID, WorkoutPlanID: planID}
	if err := create(ctx, r.db, take); err != nil {
		return nil, err
	}
	logger.Log.Info("workout plan taken", zap.Uint("user_id", userID), zap.Uint("workout_plan_id", planID))
	return take, nil
}

// CreateWorkoutPlanForCoach stores a plan, its presentation by the coach and
// its exercises and meal plans in one transaction.
func (r *PlanRepository) CreateWorkoutPlanForCoach(ctx context.Context, coachID uint, plan *models.WorkoutPlan, exercises []models.Exercise, meals []models.MealSupplement) (*models.WorkoutPlan, error) {
	if err := validateModel(plan); err != nil {
		return nil, err
	}
	for i := range exercises {
		if err := validateModel(&exercises[i]); err != nil {
			return nil, err
		}
	}
	for i := range meals {
		if err := validateModel(&meals[i]); err != nil {
			return nil, err
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Present{CoachID: coachID, WorkoutPlanID: plan.ID}).Error; err != nil {
			return err
		}
		for i := range exercises {
			if err := tx.Create(&exercises[i]).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.WorkoutPlanExercise{ExerciseID: exercises[i].ID, WorkoutPlanID: plan.ID}).Error; err != nil {
				return err
			}
		}
		for i := range meals {
			if err := tx.Create(&meals[i]).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.WorkoutPlanMealSupplement{MealSupplementID: meals[i].ID, WorkoutPlanID: plan.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Warn("workout plan creation rolled back", zap.Uint("coach_id", coachID), zap.Error(err))
		return nil, errs.FromDB(err)
	}

	logger.Log.Info("workout plan created for coach",
		zap.Uint("coach_id", coachID),
		zap.Uint("workout_plan_id", plan.ID),
		zap.Int("exercises", len(exercises)),
		zap.Int("meal_supplements", len(meals)))
	return plan, nil
}

func (r *PlanRepository) CreateExercise(ctx context.Context, exercise *models.Exercise) (*models.Exercise, error) {
	if err := create(ctx, r.db, exercise); err != nil {
		return nil, err
	}
	logger.Log.Info("exercise created", zap.Uint("exercise_id", exercise.ID))
	return exercise, nil
}

func (r *PlanRepository) CreateWorkoutPlanExercise(ctx context.Context, exerciseID, planID uint) (*models.WorkoutPlanExercise, error) {
	link := &models.WorkoutPlanExercise{ExerciseID: exerciseID, WorkoutPlanID: planID}
	if err := create(ctx, r.db, link); err != nil {
		return nil, err
	}
	logger.Log.Info("exercise linked to workout plan", zap.Uint("exercise_id", exerciseID), zap.Uint("workout_plan_id", planID))
	return link, nil
}

func (r *PlanRepository) CreateMealSupplement(ctx context.Context, meal *models.MealSupplement) (*models.MealSupplement, error) {
	if err := create(ctx, r.db, meal); err != nil {
		return nil, err
	}
	logger.Log.Info("meal supplement created", zap.Uint("meal_supplement_id", meal.ID))
	return meal, nil
}

func (r *PlanRepository) CreateWorkoutPlanMealSupplement(ctx context.Context, mealID, planID uint) (*models.WorkoutPlanMealSupplement, error) {
	link := &models.WorkoutPlanMealSupplement{MealSupplementID: mealID, WorkoutPlanID: planID}
	if err := create(ctx, r.db, link); err != nil {
		return nil, err
	}
	logger.Log.Info("meal supplement linked to workout plan", zap.Uint("meal_supplement_id", mealID), zap.Uint("workout_plan_id", planID))
	return link, nil
}

func (r *PlanRepository) ListPlanExercises(ctx context.Context, planID uint) ([]models.Exercise, error) {
	var exercises []models.Exercise
	err := r.db.WithContext(ctx).
		Joins("JOIN workout_plan_exercise ON workout_plan_exercise.exercise_id = exercise.id").
		Where("workout_plan_exercise.workout_plan_id = ?", planID).
		Order("exercise.id").
		Find(&exercises).Error
	if err != nil {
		return nil, errs.FromDB(err)
	}
	return exercises, nil
}

func (r *PlanRepository) ListPlanMealSupplements(ctx context.Context, planID uint) ([]models.MealSupplement, error) {
	var meals []models.MealSupplement
	err := r.db.WithContext(ctx).
		Joins("JOIN workout_plan_meal_supplement ON workout_plan_meal_supplement.meal_supplement_id = meal_supplement.id").
		Where("workout_plan_meal_supplement.workout_plan_id = ?", planID).
		Order("meal_supplement.id").
		Find(&meals).Error
	if err != nil {
		return nil, errs.FromDB(err)
	}
	return meals, nil
}

func (r *PlanRepository) GetMealSupplement(ctx context.Context, mealID uint) (*models.MealSupplement, error) {
	return firstWhere[models.MealSupplement](ctx, r.db, "id = ?", mealID)
}

func (r *PlanRepository) ListExercises(ctx context.Context, ids []uint) ([]models.Exercise, error) {
	var exercises []models.Exercise
	if len(ids) == 0 {
		return exercises, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&exercises).Error; err != nil {
		return nil, errs.FromDB(err)
	}
	return exercises, nil
}
