package database

import (
	"fmt"

	"github.com/fitplan/fitplan_backend/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type foreignKey struct {
	name      string
	table     string
	column    string
	refTable  string
	refColumn string
	onDelete  string
}

func cascade(name, table, column, refTable string) foreignKey {
	return foreignKey{name: name, table: table, column: column, refTable: refTable, refColumn: "id", onDelete: "CASCADE"}
}

// foreignKeys removes dependent rows with their owner: metrics, comments,
// registrations, plan links and request links never outlive it.
var foreignKeys = []foreignKey{
	cascade("fk_user_metrics_user", "user_metrics", "user_id", "users"),
	cascade("fk_coach_metrics_coach", "coach_metrics", "coach_id", "coach"),

	cascade("fk_user_transaction_log_transaction", "user_transaction_log", "transaction_id", "transaction_log"),
	cascade("fk_user_transaction_log_user", "user_transaction_log", "user_id", "users"),

	cascade("fk_take_user", "take", "user_id", "users"),
	cascade("fk_take_workout_plan", "take", "workout_plan_id", "workout_plan"),
	cascade("fk_present_coach", "present", "coach_id", "coach"),
	cascade("fk_present_workout_plan", "present", "workout_plan_id", "workout_plan"),

	cascade("fk_user_request_exercise_user", "user_request_exercise", "user_id", "users"),
	cascade("fk_user_request_exercise_user_exercise", "user_request_exercise", "user_exercise_id", "user_exercise"),
	cascade("fk_workout_plan_exercise_exercise", "workout_plan_exercise", "exercise_id", "exercise"),
	cascade("fk_workout_plan_exercise_workout_plan", "workout_plan_exercise", "workout_plan_id", "workout_plan"),
	cascade("fk_user_exercise_exercise_exercise", "user_exercise_exercise", "exercise_id", "exercise"),
	cascade("fk_user_exercise_exercise_user_exercise", "user_exercise_exercise", "user_exercise_id", "user_exercise"),

	cascade("fk_user_request_meal_user", "user_request_meal", "user_id", "users"),
	cascade("fk_user_request_meal_user_meal", "user_request_meal", "user_meal_id", "user_meal"),
	cascade("fk_workout_plan_meal_supplement_meal_supplement", "workout_plan_meal_supplement", "meal_supplement_id", "meal_supplement"),
	cascade("fk_workout_plan_meal_supplement_workout_plan", "workout_plan_meal_supplement", "workout_plan_id", "workout_plan"),
	cascade("fk_user_meal_meal_supplement_meal_supplement", "user_meal_meal_supplement", "meal_supplement_id", "meal_supplement"),
	cascade("fk_user_meal_meal_supplement_user_meal", "user_meal_meal_supplement", "user_meal_id", "user_meal"),

	cascade("fk_gym_owner", "gym", "owner_id", "coach"),
	cascade("fk_coach_gym_coach", "coach_gym", "coach_id", "coach"),
	cascade("fk_coach_gym_gym", "coach_gym", "gym_id", "gym"),
	cascade("fk_gym_plan_price_gym", "gym_plan_price", "gym_id", "gym"),
	cascade("fk_gym_comment_user", "gym_comment", "user_id", "users"),
	cascade("fk_gym_comment_gym", "gym_comment", "gym_id", "gym"),
	cascade("fk_user_gym_registration_user", "user_gym_registration", "user_id", "users"),
	cascade("fk_user_gym_registration_gym", "user_gym_registration", "gym_id", "gym"),
	{
		name: "fk_user_gym_registration_plan_price", table: "user_gym_registration", column: "gym_plan_price_id",
		refTable: "gym_plan_price", refColumn: "id", onDelete: "SET NULL",
	},

	cascade("fk_coach_comment_user", "coach_comment", "user_id", "users"),
	cascade("fk_coach_comment_coach", "coach_comment", "coach_id", "coach"),
	cascade("fk_coach_plan_price_coach", "coach_plan_price", "coach_id", "coach"),
}

func (fk foreignKey) statement() string {
	return fmt.Sprintf(`ALTER TABLE "%s" ADD CONSTRAINT "%s" FOREIGN KEY ("%s") REFERENCES "%s" ("%s") ON DELETE %s`,
		fk.table, fk.name, fk.column, fk.refTable, fk.refColumn, fk.onDelete)
}

func ensureForeignKeys(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, fk := range foreignKeys {
			var count int64
			err := tx.Raw(`SELECT count(*) FROM information_schema.table_constraints
				WHERE constraint_type = 'FOREIGN KEY' AND table_schema = CURRENT_SCHEMA()
				AND table_name = ? AND constraint_name = ?`, fk.table, fk.name).Scan(&count).Error
			if err != nil {
				return fmt.Errorf("look up %s: %w", fk.name, err)
			}
			if count > 0 {
				continue
			}
			if err := tx.Exec(fk.statement()).Error; err != nil {
				return fmt.Errorf("create %s: %w", fk.name, err)
			}
			logger.Log.Info("foreign key created", zap.String("constraint", fk.name))
		}
		return nil
	})
}
