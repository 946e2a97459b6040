package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForeignKeyStatement(t *testing.T) {
	fk := cascade("fk_coach_metrics_coach", "coach_metrics", "coach_id", "coach")
	assert.Equal(t,
		`ALTER TABLE "coach_metrics" ADD CONSTRAINT "fk_coach_metrics_coach" FOREIGN KEY ("coach_id") REFERENCES "coach" ("id") ON DELETE CASCADE`,
		fk.statement())
}

func TestForeignKeysAreUniqueAndCoverOwnedTables(t *testing.T) {
	names := map[string]bool{}
	owned := map[string]bool{}
	for _, fk := range foreignKeys {
		assert.False(t, names[fk.name], "duplicate constraint %s", fk.name)
		names[fk.name] = true
		owned[fk.table+"."+fk.column] = true
	}

	for _, column := range []string{
		"user_metrics.user_id",
		"coach_metrics.coach_id",
		"gym_comment.user_id",
		"coach_comment.coach_id",
		"user_gym_registration.user_id",
		"user_meal_meal_supplement.user_meal_id",
		"user_exercise_exercise.user_exercise_id",
		"present.coach_id",
		"take.user_id",
	} {
		assert.True(t, owned[column], "missing foreign key on %s", column)
	}
}
