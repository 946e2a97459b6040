package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MealAnswer is everything written when a coach answers a meal request.
type MealAnswer struct {
	Request        models.UserRequestMeal        `json:"request"`
	MealSupplement models.MealSupplement         `json:"meal_supplement"`
	Answer         models.UserMealMealSupplement `json:"answer"`
	WorkoutPlanID  uint                          `json:"workout_plan_id"`
}

// ExerciseAnswer is everything written when a coach answers an exercise request.
type ExerciseAnswer struct {
	Request       models.UserRequestExercise    `json:"request"`
	Exercises     []models.Exercise             `json:"exercises"`
	Answers       []models.UserExerciseExercise `json:"answers"`
	WorkoutPlanID uint                          `json:"workout_plan_id"`
}

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// CreateMealRequest stores the meal request and links it to the user.
func (r *RequestRepository) CreateMealRequest(ctx context.Context, userID uint, meal *models.UserMeal) (*models.UserMeal, error) {
	if err := validateModel(meal); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(meal).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserRequestMeal{UserID: userID, UserMealID: meal.ID}).Error
	})
	if err != nil {
		logger.Log.Warn("meal request rolled back", zap.Uint("user_id", userID), zap.Error(err))
		return nil, errs.FromDB(err)
	}
	logger.Log.Info("meal request created", zap.Uint("user_id", userID), zap.Uint("user_meal_id", meal.ID))
	return meal, nil
}

// CreateExerciseRequest stores the exercise request and links it to the user.
func (r *RequestRepository) CreateExerciseRequest(ctx context.Context, userID uint, exercise *models.UserExercise) (*models.UserExercise, error) {
	if err := validateModel(exercise); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(exercise).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserRequestExercise{UserID: userID, UserExerciseID: exercise.ID}).Error
	})
	if err != nil {
		logger.Log.Warn("exercise request rolled back", zap.Uint("user_id", userID), zap.Error(err))
		return nil, errs.FromDB(err)
	}
	logger.Log.Info("exercise request created", zap.Uint("user_id", userID), zap.Uint("user_exercise_id", exercise.ID))
	return exercise, nil
}

// OutstandingMealRequestUsers lists the coach's users who have at least one
// unanswered meal request.
func (r *RequestRepository) OutstandingMealRequestUsers(ctx context.Context, coachID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Select("DISTINCT users.*").
		Scopes(unansweredMealRequests, takingPlansPresentedBy(coachID)).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, errs.FromDB(err)
	}
	logger.Log.Info("fetched users with outstanding meal requests", zap.Uint("coach_id", coachID), zap.Int("count", len(users)))
	return users, nil
}

// OutstandingExerciseRequestUsers lists the coach's users who have at least
// one unanswered exercise request.
func (r *RequestRepository) OutstandingExerciseRequestUsers(ctx context.Context, coachID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Select("DISTINCT users.*").
		Scopes(unansweredExerciseRequests, takingPlansPresentedBy(coachID)).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, errs.FromDB(err)
	}
	logger.Log.Info("fetched users with outstanding exercise requests", zap.Uint("coach_id", coachID), zap.Int("count", len(users)))
	return users, nil
}

func (r *RequestRepository) OutstandingMealRequests(ctx context.Context, coachID uint) ([]models.UserRequestMeal, error) {
	var requests []models.UserRequestMeal
	err := r.db.WithContext(ctx).
		Table("users").
		Select("DISTINCT user_request_meal.user_id, user_request_meal.user_meal_id").
		Scopes(unansweredMealRequests, takingPlansPresentedBy(coachID)).
		Order("user_request_meal.user_meal_id").
		Scan(&requests).Error
	if err != nil {
		return nil, errs.FromDB(err)
	}
	logger.Log.Info("fetched outstanding meal requests", zap.Uint("coach_id", coachID), zap.Int("count", len(requests)))
	return requests, nil
}

func (r *RequestRepository) OutstandingExerciseRequests(ctx context.Context, coachID uint) ([]models.UserRequestExercise, error) {
	var requests []models.UserRequestExercise
	err := r.db.WithContext(ctx).
		Table("users").
		Select("DISTINCT user_request_exercise.user_id, user_request_exercise.user_exercise_id").
		Scopes(unansweredExerciseRequests, takingPlansPresentedBy(coachID)).
		Order("user_request_exercise.user_exercise_id").
		Scan(&requests).Error
	if err != nil {
		return nil, errs.FromDB(err)
	}
	logger.Log.Info("fetched outstanding exercise requests", zap.Uint("coach_id", coachID), zap.Int("count", len(requests)))
	return requests, nil
}

func (r *RequestRepository) GetMealRequest(ctx context.Context, userMealID uint) (*models.UserRequestMeal, error) {
	logger.Log.Info("fetching meal request", zap.Uint("user_meal_id", userMealID))
	return firstWhere[models.UserRequestMeal](ctx, r.db, "user_meal_id = ?", userMealID)
}

func (r *RequestRepository) GetExerciseRequest(ctx context.Context, userExerciseID uint) (*models.UserRequestExercise, error) {
	logger.Log.Info("fetching exercise request", zap.Uint("user_exercise_id", userExerciseID))
	return firstWhere[models.UserRequestExercise](ctx, r.db, "user_exercise_id = ?", userExerciseID)
}

// MealRequestAnswer returns the answer of a meal request, or errs.ErrNotFound
// while it is still outstanding.
func (r *RequestRepository) MealRequestAnswer(ctx context.Context, userMealID uint) (*models.UserMealMealSupplement, error) {
	logger.Log.Info("checking meal request answer", zap.Uint("user_meal_id", userMealID))
	return firstWhere[models.UserMealMealSupplement](ctx, r.db, "user_meal_id = ?", userMealID)
}

// ExerciseRequestAnswer returns the first answer row of an exercise request,
// or errs.ErrNotFound while it is still outstanding.
func (r *RequestRepository) ExerciseRequestAnswer(ctx context.Context, userExerciseID uint) (*models.UserExerciseExercise, error) {
	logger.Log.Info("checking exercise request answer", zap.Uint("user_exercise_id", userExerciseID))
	return firstWhere[models.UserExerciseExercise](ctx, r.db, "user_exercise_id = ?", userExerciseID)
}

func (r *RequestRepository) ExerciseRequestAnswers(ctx context.Context, userExerciseID uint) ([]models.UserExerciseExercise, error) {
	var answers []models.UserExerciseExercise
	err := r.db.WithContext(ctx).
		Where("user_exercise_id = ?", userExerciseID).
		Order("exercise_id").
		Find(&answers).Error
	if err != nil {
		return nil, errs.FromDB(err)
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("exercise request %d has no answer: %w", userExerciseID, errs.ErrNotFound)
	}
	return answers, nil
}

func (r *RequestRepository) ListMealAnswers(ctx context.Context) ([]models.UserMealMealSupplement, error) {
	var answers []models.UserMealMealSupplement
	if err := r.db.WithContext(ctx).Order("user_meal_id").Find(&answers).Error; err != nil {
		return nil, errs.FromDB(err)
	}
	return answers, nil
}

func (r *RequestRepository) CreateUserMealMealSupplement(ctx context.Context, answer *models.UserMealMealSupplement) (*models.UserMealMealSupplement, error) {
	if err := create(ctx, r.db, answer); err != nil {
		return nil, err
	}
	logger.Log.Info("meal answer linked", zap.Uint("user_meal_id", answer.UserMealID), zap.Uint("meal_supplement_id", answer.MealSupplementID))
	return answer, nil
}

func (r *RequestRepository) CreateUserExerciseExercise(ctx context.Context, answer *models.UserExerciseExercise) (*models.UserExerciseExercise, error) {
	if err := create(ctx, r.db, answer); err != nil {
		return nil, err
	}
	logger.Log.Info("exercise answer linked", zap.Uint("user_exercise_id", answer.UserExerciseID), zap.Uint("exercise_id", answer.ExerciseID))
	return answer, nil
}

// AnswerMealRequest records the coach's meal plan for a request. The request
// must belong to a user taking one of the coach's plans, and can be answered
// only once. The meal plan is also attached to that workout plan.
func (r *RequestRepository) AnswerMealRequest(ctx context.Context, coachID, userMealID uint, supplement *models.MealSupplement) (*MealAnswer, error) {
	if err := validateModel(supplement); err != nil {
		return nil, err
	}

	answer := &MealAnswer{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_meal_id = ?", userMealID).
			First(&answer.Request).Error; err != nil {
			return err
		}

		planID, err := planPresentedTo(tx, coachID, answer.Request.UserID)
		if err != nil {
			return err
		}
		answer.WorkoutPlanID = planID

		var answered int64
		if err := tx.Model(&models.UserMealMealSupplement{}).Where("user_meal_id = ?", userMealID).Count(&answered).Error; err != nil {
			return err
		}
		if answered > 0 {
			return errs.Unique("uix_user_meal_meal_supplement_user_meal_id", fmt.Sprintf("meal request %d is already answered", userMealID))
		}

		if err := tx.Create(supplement).Error; err != nil {
			return err
		}
		answer.MealSupplement = *supplement
		answer.Answer = models.UserMealMealSupplement{MealSupplementID: supplement.ID, UserMealID: userMealID}
		if err := tx.Create(&answer.Answer).Error; err != nil {
			return err
		}
		return tx.Create(&models.WorkoutPlanMealSupplement{MealSupplementID: supplement.ID, WorkoutPlanID: planID}).Error
	})
	if err != nil {
		logger.Log.Warn("meal request answer rolled back", zap.Uint("coach_id", coachID), zap.Uint("user_meal_id", userMealID), zap.Error(err))
		return nil, errs.FromDB(err)
	}

	logger.Log.Info("meal request answered",
		zap.Uint("coach_id", coachID),
		zap.Uint("user_meal_id", userMealID),
		zap.Uint("meal_supplement_id", supplement.ID),
		zap.Uint("workout_plan_id", answer.WorkoutPlanID))
	return answer, nil
}

// AnswerExerciseRequest records the coach's exercises for a request under the
// same rules as AnswerMealRequest. All exercises form a single answer.
func (r *RequestRepository) AnswerExerciseRequest(ctx context.Context, coachID, userExerciseID uint, exercises []models.Exercise) (*ExerciseAnswer, error) {
	if len(exercises) == 0 {
		return nil, errs.Check("exercises", "at least one exercise is required")
	}
	for i := range exercises {
		if err := validateModel(&exercises[i]); err != nil {
			return nil, err
		}
	}

	answer := &ExerciseAnswer{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_exercise_id = ?", userExerciseID).
			First(&answer.Request).Error; err != nil {
			return err
		}

		planID, err := planPresentedTo(tx, coachID, answer.Request.UserID)
		if err != nil {
			return err
		}
		answer.WorkoutPlanID = planID

		var answered int64
		if err := tx.Model(&models.UserExerciseExercise{}).Where("user_exercise_id = ?", userExerciseID).Count(&answered).Error; err != nil {
			return err
		}
		if answered > 0 {
			return errs.Unique("user_exercise_exercise_user_exercise_id", fmt.Sprintf("exercise request %d is already answered", userExerciseID))
		}

		if err := tx.Create(&exercises).Error; err != nil {
			return err
		}
		answer.Exercises = exercises
		for _, exercise := range exercises {
			link := models.UserExerciseExercise{ExerciseID: exercise.ID, UserExerciseID: userExerciseID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
			answer.Answers = append(answer.Answers, link)
			if err := tx.Create(&models.WorkoutPlanExercise{ExerciseID: exercise.ID, WorkoutPlanID: planID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Warn("exercise request answer rolled back", zap.Uint("coach_id", coachID), zap.Uint("user_exercise_id", userExerciseID), zap.Error(err))
		return nil, errs.FromDB(err)
	}

	logger.Log.Info("exercise request answered",
		zap.Uint("coach_id", coachID),
		zap.Uint("user_exercise_id", userExerciseID),
		zap.Int("exercises", len(exercises)),
		zap.Uint("workout_plan_id", answer.WorkoutPlanID))
	return answer, nil
}

// planPresentedTo picks the lowest-id plan the user takes from the coach.
func planPresentedTo(tx *gorm.DB, coachID, userID uint) (uint, error) {
	var take models.Take
	err := tx.
		Joins("JOIN present ON present.workout_plan_id = take.workout_plan_id").
		Where("take.user_id = ? AND present.coach_id = ?", userID, coachID).
		Order("take.workout_plan_id").
		Take(&take).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("user %d takes no plan of coach %d: %w", userID, coachID, errs.ErrPermissionDenied)
	}
	if err != nil {
		return 0, err
	}
	return take.WorkoutPlanID, nil
}
