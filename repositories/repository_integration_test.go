package repositories

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fitplan/fitplan_backend/database"
	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	testDBOnce sync.Once
	testDB     *gorm.DB
	testDBErr  error
)

// integrationDB connects to FITPLAN_TEST_DATABASE_URL, migrates it and
// empties every table. Tests are skipped when the variable is unset.
func integrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBOnce.Do(func() {
		url := os.Getenv("FITPLAN_TEST_DATABASE_URL")
		if url == "" {
			testDBErr = fmt.Errorf("FITPLAN_TEST_DATABASE_URL is not set")
			return
		}
		testDB, testDBErr = gorm.Open(postgres.Open(url), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if testDBErr != nil {
			return
		}
		testDBErr = database.Migrate(testDB)
	})
	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}

	truncate := func() {
		var tables []string
		for _, model := range database.Models() {
			stmt := &gorm.Statement{DB: testDB}
			require.NoError(t, stmt.Parse(model))
			tables = append(tables, `"`+stmt.Schema.Table+`"`)
		}
		require.NoError(t, testDB.Exec("TRUNCATE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE").Error)
	}
	truncate()
	t.Cleanup(truncate)
	return testDB
}

type fixture struct {
	user  *models.User
	coach *models.Coach
	plan  *models.WorkoutPlan
}

// newFixture creates a user taking a plan presented by a coach.
func newFixture(t *testing.T, db *gorm.DB, suffix string) fixture {
	t.Helper()
	ctx := context.Background()

	user, _, err := NewUserRepository(db).CreateUserWithMetrics(ctx, &models.User{
		Password: "hash",
		UserName: "user" + suffix,
		Name:     "User " + suffix,
		Email:    "user" + suffix + "@example.com",
	}, &models.UserMetrics{})
	require.NoError(t, err)

	coach, _, err := NewCoachRepository(db).CreateCoachWithMetrics(ctx, &models.Coach{
		Password:    "hash",
		UserName:    "coach" + suffix,
		Name:        "Coach " + suffix,
		Email:       "coach" + suffix + "@example.com",
		PhoneNumber: "0700" + suffix,
	}, &models.CoachMetrics{CoachingID: "C-" + suffix})
	require.NoError(t, err)

	plans := NewPlanRepository(db)
	plan, err := plans.CreateWorkoutPlanForCoach(ctx, coach.ID, &models.WorkoutPlan{Name: "Plan " + suffix}, nil, nil)
	require.NoError(t, err)
	_, err = plans.CreateTake(ctx, user.ID, plan.ID)
	require.NoError(t, err)

	return fixture{user: user, coach: coach, plan: plan}
}

func TestIntegrationMealRequestFulfillment(t *testing.T) {
	db := integrationDB(t)
	ctx := context.Background()
	fx := newFixture(t, db, "1")
	other := newFixture(t, db, "2")
	requests := NewRequestRepository(db)

	meal, err := requests.CreateMealRequest(ctx, fx.user.ID, &models.UserMeal{
		Weight: decimal.NewFromInt(80),
		Waist:  decimal.NewFromInt(90),
		Type:   "bulk",
		Price:  decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	otherMeal, err := requests.CreateMealRequest(ctx, other.user.ID, &models.UserMeal{
		Weight: decimal.NewFromInt(60),
		Waist:  decimal.NewFromInt(70),
		Type:   "cut",
		Price:  decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	users, err := requests.OutstandingMealRequestUsers(ctx, fx.coach.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, fx.user.ID, users[0].ID)

	users, err = requests.OutstandingMealRequestUsers(ctx, other.coach.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, other.user.ID, users[0].ID)

	pending, err := requests.OutstandingMealRequests(ctx, fx.coach.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.UserRequestMeal{{UserID: fx.user.ID, UserMealID: meal.ID}}, pending)

	pending, err = requests.OutstandingMealRequests(ctx, other.coach.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.UserRequestMeal{{UserID: other.user.ID, UserMealID: otherMeal.ID}}, pending)

	_, err = requests.MealRequestAnswer(ctx, meal.ID)
	assert.True(t, errs.IsNotFound(err))

	_, err = requests.AnswerMealRequest(ctx, other.coach.ID, meal.ID, &models.MealSupplement{ExpireTime: 30})
	assert.ErrorIs(t, err, errs.ErrPermissionDenied)

	breakfast := "oats"
	answer, err := requests.AnswerMealRequest(ctx, fx.coach.ID, meal.ID, &models.MealSupplement{Breakfast: &breakfast, ExpireTime: 30})
	require.NoError(t, err)
	assert.Equal(t, fx.plan.ID, answer.WorkoutPlanID)
	assert.Equal(t, meal.ID, answer.Answer.UserMealID)

	users, err = requests.OutstandingMealRequestUsers(ctx, fx.coach.ID)
	require.NoError(t, err)
	assert.Empty(t, users)

	users, err = requests.OutstandingMealRequestUsers(ctx, other.coach.ID)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	link, err := requests.MealRequestAnswer(ctx, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, answer.MealSupplement.ID, link.MealSupplementID)

	_, err = requests.AnswerMealRequest(ctx, fx.coach.ID, meal.ID, &models.MealSupplement{ExpireTime: 30})
	var ce *errs.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, errs.KindUnique, ce.Kind)

	meals, err := NewPlanRepository(db).ListPlanMealSupplements(ctx, fx.plan.ID)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, answer.MealSupplement.ID, meals[0].ID)
}

func TestIntegrationExerciseRequestFulfillment(t *testing.T) {
	db := integrationDB(t)
	ctx := context.Background()
	fx := newFixture(t, db, "3")
	other := newFixture(t, db, "7")
	requests := NewRequestRepository(db)

	request, err := requests.CreateExerciseRequest(ctx, fx.user.ID, &models.UserExercise{
		Weight: decimal.NewFromInt(70),
		Waist:  decimal.NewFromInt(80),
		Type:   "cut",
		Price:  decimal.NewFromInt(15),
	})
	require.NoError(t, err)
	otherRequest, err := requests.CreateExerciseRequest(ctx, other.user.ID, &models.UserExercise{
		Weight: decimal.NewFromInt(90),
		Waist:  decimal.NewFromInt(95),
		Type:   "bulk",
		Price:  decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	pending, err := requests.OutstandingExerciseRequests(ctx, fx.coach.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.UserRequestExercise{{UserID: fx.user.ID, UserExerciseID: request.ID}}, pending)

	pending, err = requests.OutstandingExerciseRequests(ctx, other.coach.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.UserRequestExercise{{UserID: other.user.ID, UserExerciseID: otherRequest.ID}}, pending)

	users, err := requests.OutstandingExerciseRequestUsers(ctx, other.coach.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, other.user.ID, users[0].ID)

	_, err = requests.ExerciseRequestAnswer(ctx, request.ID)
	assert.True(t, errs.IsNotFound(err))

	answer, err := requests.AnswerExerciseRequest(ctx, fx.coach.ID, request.ID, []models.Exercise{
		{Day: "monday", Name: "squat", Set: "5x5"},
		{Day: "wednesday", Name: "deadlift", Set: "3x5"},
	})
	require.NoError(t, err)
	assert.Len(t, answer.Answers, 2)

	links, err := requests.ExerciseRequestAnswers(ctx, request.ID)
	require.NoError(t, err)
	assert.Len(t, links, 2)

	first, err := requests.ExerciseRequestAnswer(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, answer.Exercises[0].ID, first.ExerciseID)
	assert.Equal(t, request.ID, first.UserExerciseID)

	_, err = requests.AnswerExerciseRequest(ctx, fx.coach.ID, request.ID, []models.Exercise{{Day: "friday", Name: "row", Set: "3x8"}})
	assert.ErrorIs(t, err, errs.ErrConstraintViolation)

	pending, err = requests.OutstandingExerciseRequests(ctx, fx.coach.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	pending, err = requests.OutstandingExerciseRequests(ctx, other.coach.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestIntegrationDeleteUserCascades(t *testing.T) {
	db := integrationDB(t)
	ctx := context.Background()
	fx := newFixture(t, db, "4")
	users := NewUserRepository(db)

	_, err := users.DeleteUser(ctx, fx.user.ID)
	require.NoError(t, err)

	_, err = users.GetUserMetrics(ctx, fx.user.ID)
	assert.True(t, errs.IsNotFound(err))

	plans, err := users.ListUserPlans(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestIntegrationUniqueAndCheckConstraints(t *testing.T) {
	db := integrationDB(t)
	ctx := context.Background()
	fx := newFixture(t, db, "5")

	_, err := NewUserRepository(db).CreateUser(ctx, &models.User{
		Password: "hash",
		UserName: "someone-else",
		Name:     "Dup",
		Email:    fx.user.Email,
	})
	var ce *errs.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, errs.KindUnique, ce.Kind)

	err = db.Exec("UPDATE coach_metrics SET rating = 9 WHERE coach_id = ?", fx.coach.ID).Error
	require.ErrorAs(t, errs.FromDB(err), &ce)
	assert.Equal(t, errs.KindCheck, ce.Kind)
}

func TestIntegrationCreatedRowsRoundTrip(t *testing.T) {
	db := integrationDB(t)
	ctx := context.Background()
	fx := newFixture(t, db, "8")
	gyms := NewGymRepository(db)

	created, err := gyms.CreateGymWithOwner(ctx, &models.Gym{Name: "Iron House", LicenseNumber: "L-8"}, fx.coach.ID)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())
	require.False(t, created.UpdatedAt.IsZero())

	fetched, err := gyms.GetGym(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, 0, fetched.Rating)
	assert.Equal(t, models.VerificationPending, fetched.VerificationStatus)
	assert.WithinDuration(t, created.CreatedAt, fetched.CreatedAt, time.Millisecond)
	assert.WithinDuration(t, created.UpdatedAt, fetched.UpdatedAt, time.Millisecond)

	again, err := gyms.GetGym(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, fetched, again)

	var links []models.CoachGym
	require.NoError(t, db.Where("gym_id = ?", created.ID).Find(&links).Error)
	assert.Equal(t, []models.CoachGym{{CoachID: fx.coach.ID, GymID: created.ID}}, links)

	_, err = gyms.AddCoach(ctx, fx.coach.ID, created.ID)
	var ce *errs.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, errs.KindUnique, ce.Kind)

	user, err := NewUserRepository(db).GetUser(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.WithinDuration(t, fx.user.CreatedAt, user.CreatedAt, time.Millisecond)
}

func TestIntegrationGymVerificationAndRegistrationExpiry(t *testing.T) {
	db := integrationDB(t)
	ctx := context.Background()
	fx := newFixture(t, db, "6")
	gyms := NewGymRepository(db)

	gym, err := gyms.CreateGym(ctx, &models.Gym{OwnerID: fx.coach.ID, Name: "Iron House", LicenseNumber: "L-1"})
	require.NoError(t, err)

	_, err = gyms.GetVerifiedGym(ctx, gym.ID)
	assert.True(t, errs.IsNotFound(err))

	_, err = gyms.CreateGymPlanPrice(ctx, fx.coach.ID, &models.GymPlanPrice{GymID: gym.ID, SessionCounts: 5, DurationDays: 1, Price: 40})
	assert.True(t, errs.IsNotFound(err))

	_, err = gyms.SetVerificationStatus(ctx, gym.ID, models.VerificationVerified)
	require.NoError(t, err)
	_, err = gyms.GetVerifiedGym(ctx, gym.ID)
	require.NoError(t, err)

	price, err := gyms.CreateGymPlanPrice(ctx, fx.coach.ID, &models.GymPlanPrice{GymID: gym.ID, SessionCounts: 5, DurationDays: 1, Price: 40})
	require.NoError(t, err)

	registrations := NewRegistrationRepository(db)
	registration, entry, err := registrations.CreatePaidRegistration(ctx, &models.UserGymRegistration{
		UserID:             fx.user.ID,
		GymID:              gym.ID,
		GymPlanPriceID:     &price.ID,
		RegisteredSessions: 5,
		RegisteredDays:     1,
		RemainingSessions:  5,
		RemainingDays:      1,
	}, &models.TransactionLog{
		Amount: decimal.NewFromInt(40),
		Reason: "gym registration",
		Status: models.TransactionCompleted,
		Date:   time.Now().UTC().Format(time.RFC3339),
	})
	require.NoError(t, err)

	ledger, err := NewTransactionRepository(db).ListUserTransactions(ctx, fx.user.ID)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, entry.ID, ledger[0].ID)

	active, err := registrations.ListActiveRegistrations(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, registration.ID, active[0].ID)

	_, err = registrations.UpdateRegistration(ctx, registration.ID, map[string]any{"remaining_days": 0, "is_expired": true})
	require.NoError(t, err)

	stored, err := registrations.GetRegistration(ctx, registration.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsExpired)
	assert.Equal(t, 0, stored.RemainingDays)
	assert.Equal(t, 5, stored.RemainingSessions)

	active, err = registrations.ListActiveRegistrations(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}
