package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestPartialUpdatesRejectOutOfRangeValuesBeforeQuerying(t *testing.T) {
	db, mock := newMockDB(t)
	ctx := context.Background()

	t.Run("gym rating above five", func(t *testing.T) {
		_, err := NewGymRepository(db).UpdateGym(ctx, 1, map[string]any{"rating": 7})
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConstraintViolation)

		var ce *errs.ConstraintError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, errs.KindCheck, ce.Kind)
		assert.Equal(t, "rating", ce.Column)
	})

	t.Run("negative plan price", func(t *testing.T) {
		_, err := NewGymRepository(db).UpdateGymPlanPrice(ctx, 1, map[string]any{"price": -5})
		assert.ErrorIs(t, err, errs.ErrConstraintViolation)
	})

	t.Run("non numeric rating", func(t *testing.T) {
		_, err := NewGymRepository(db).UpdateGym(ctx, 1, map[string]any{"rating": "five"})
		assert.ErrorIs(t, err, errs.ErrConstraintViolation)
	})

	t.Run("coach rating above five", func(t *testing.T) {
		metrics, err := NewCoachRepository(db).UpdateCoachMetrics(ctx, 1, map[string]any{"rating": 7})
		assert.Nil(t, metrics)
		var ce *errs.ConstraintError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "rating", ce.Column)
	})

	t.Run("fractional rating", func(t *testing.T) {
		_, err := NewCoachRepository(db).UpdateCoachMetrics(ctx, 1, map[string]any{"rating": 4.5})
		assert.ErrorIs(t, err, errs.ErrConstraintViolation)
	})

	t.Run("fractional session count", func(t *testing.T) {
		_, err := NewGymRepository(db).UpdateGymPlanPrice(ctx, 1, map[string]any{"session_counts": float64(2.25)})
		assert.ErrorIs(t, err, errs.ErrConstraintViolation)
	})

	t.Run("unknown verification status", func(t *testing.T) {
		_, err := NewGymRepository(db).SetVerificationStatus(ctx, 1, "maybe")
		assert.ErrorIs(t, err, errs.ErrConstraintViolation)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsInvalidModelsBeforeQuerying(t *testing.T) {
	db, mock := newMockDB(t)
	ctx := context.Background()

	_, err := NewCommentRepository(db).CreateGymComment(ctx, &models.GymComment{UserID: 1, GymID: 1, Rating: 7})
	assert.ErrorIs(t, err, errs.ErrConstraintViolation)

	_, err = NewRequestRepository(db).AnswerExerciseRequest(ctx, 1, 1, nil)
	assert.ErrorIs(t, err, errs.ErrConstraintViolation)

	_, err = NewGymRepository(db).CreateGym(ctx, &models.Gym{OwnerID: 1})
	assert.ErrorIs(t, err, errs.ErrConstraintViolation)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingRowDoesNotWrite(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	user, err := NewUserRepository(db).UpdateUser(context.Background(), 42, map[string]any{"name": "Sam"})
	assert.Nil(t, user)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingPlanPriceReportsNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "gym_plan_price" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	price, err := NewGymRepository(db).DeleteGymPlanPrice(context.Background(), 9)
	assert.Nil(t, price)
	assert.True(t, errs.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGymAssignsIDAndForcesPending(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO "gym"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	gym, err := NewGymRepository(db).CreateGym(context.Background(), &models.Gym{
		OwnerID:            1,
		Name:               "Iron House",
		LicenseNumber:      "L-100",
		VerificationStatus: models.VerificationVerified,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(3), gym.ID)
	assert.Equal(t, models.VerificationPending, gym.VerificationStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFieldRulesAcceptWholeJSONNumbers(t *testing.T) {
	assert.NoError(t, gymPlanPriceRules.check(map[string]any{"price": float64(40), "session_counts": 8}))
	assert.NoError(t, gymRules.check(map[string]any{"rating": float64(5), "name": "ignored"}))
}

func TestCreateGymWithOwnerRollsBackWhenOwnerLinkFails(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "gym"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(`INSERT INTO "coach_gym"`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "fk_coach_gym_coach", TableName: "coach_gym"})
	mock.ExpectRollback()

	gym, err := NewGymRepository(db).CreateGymWithOwner(context.Background(), &models.Gym{
		Name:          "Iron House",
		LicenseNumber: "L-100",
	}, 99)
	assert.Nil(t, gym)

	var ce *errs.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, errs.KindForeignKey, ce.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGymWithOwnerCommitsBothRows(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "gym"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(`INSERT INTO "coach_gym"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	gym, err := NewGymRepository(db).CreateGymWithOwner(context.Background(), &models.Gym{
		Name:          "Iron House",
		LicenseNumber: "L-100",
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(5), gym.ID)
	assert.Equal(t, uint(2), gym.OwnerID)
	assert.Equal(t, models.VerificationPending, gym.VerificationStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteGymCommentRefreshesRating(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "gym_comment" WHERE id = \$1 AND user_id = \$2 AND gym_id = \$3 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "gym_id", "rating"}).AddRow(11, 4, 2, 5))
	mock.ExpectExec(`DELETE FROM "gym_comment"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COALESCE\(AVG\(rating\), 0\) AS avg FROM "gym_comment"`).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(2.6))
	mock.ExpectExec(`UPDATE "gym" SET "rating"=\$1`).
		WithArgs(3, sqlmock.AnyArg(), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	comment, err := NewCommentRepository(db).DeleteGymComment(context.Background(), 4, 2, 11)
	require.NoError(t, err)
	assert.Equal(t, uint(11), comment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCoachCommentResetsRatingWhenNoneRemain(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "coach_comment" WHERE id = \$1 AND user_id = \$2 AND coach_id = \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "coach_id", "rating"}).AddRow(8, 4, 3, 4))
	mock.ExpectExec(`DELETE FROM "coach_comment"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM "coach_comment"`).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(0))
	mock.ExpectExec(`UPDATE "coach_metrics" SET "rating"=\$1`).
		WithArgs(0, sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := NewCommentRepository(db).DeleteCoachComment(context.Background(), 4, 3, 8)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteGymCommentUnderOtherGymIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "gym_comment" WHERE id = \$1 AND user_id = \$2 AND gym_id = \$3`).
		WithArgs(11, 4, 7, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	comment, err := NewCommentRepository(db).DeleteGymComment(context.Background(), 4, 7, 11)
	assert.Nil(t, comment)
	assert.True(t, errs.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserWithMetricsRollsBackOnMetricsFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "user_metrics"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "user_metrics_user_id_key", TableName: "user_metrics"})
	mock.ExpectRollback()

	user, metrics, err := NewUserRepository(db).CreateUserWithMetrics(context.Background(),
		&models.User{Password: "hash", UserName: "sam", Name: "Sam", Email: "sam@example.com"},
		&models.UserMetrics{},
	)
	assert.Nil(t, user)
	assert.Nil(t, metrics)

	var ce *errs.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, errs.KindUnique, ce.Kind)
	assert.Equal(t, "user_metrics_user_id_key", ce.Constraint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoundRating(t *testing.T) {
	tests := []struct {
		avg  float64
		want int
	}{
		{0, 0},
		{2.4, 2},
		{2.5, 3},
		{4.6, 5},
		{-1, 0},
		{9, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundRating(tt.avg), "avg %v", tt.avg)
	}
}
