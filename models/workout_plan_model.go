package models

import "time"

type WorkoutPlan struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name" validate:"required"`
	Description   *string   `gorm:"type:text" json:"description"`
	DurationMonth *int      `json:"duration_month" validate:"omitempty,gte=0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (WorkoutPlan) TableName() string { return "workout_plan" }

// Take assigns a workout plan to a user.
type Take struct {
	UserID        uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	WorkoutPlanID uint `gorm:"primaryKey;autoIncrement:false" json:"workout_plan_id"`
}

func (Take) TableName() string { return "take" }

// Present marks a coach as the author of a workout plan.
type Present struct {
	CoachID       uint `gorm:"primaryKey;autoIncrement:false" json:"coach_id"`
	WorkoutPlanID uint `gorm:"primaryKey;autoIncrement:false" json:"workout_plan_id"`
}

func (Present) TableName() string { return "present" }

type Exercise struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Day        string    `gorm:"size:50;not null" json:"day" validate:"required"`
	Name       string    `gorm:"size:100;not null" json:"name" validate:"required"`
	Set        string    `gorm:"size:100;not null" json:"set" validate:"required"`
	ExpireTime *int      `json:"expire_time"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Exercise) TableName() string { return "exercise" }

type WorkoutPlanExercise struct {
	ExerciseID    uint `gorm:"primaryKey;autoIncrement:false" json:"exercise_id"`
	WorkoutPlanID uint `gorm:"primaryKey;autoIncrement:false" json:"workout_plan_id"`
}

func (WorkoutPlanExercise) TableName() string { return "workout_plan_exercise" }

type MealSupplement struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Breakfast  *string   `gorm:"type:text" json:"breakfast"`
	Lunch      *string   `gorm:"type:text" json:"lunch"`
	Dinner     *string   `gorm:"type:text" json:"dinner"`
	Supplement *string   `gorm:"type:text" json:"supplement"`
	ExpireTime int       `gorm:"not null" json:"expire_time" validate:"gte=0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (MealSupplement) TableName() string { return "meal_supplement" }

type WorkoutPlanMealSupplement struct {
	MealSupplementID uint `gorm:"primaryKey;autoIncrement:false" json:"meal_supplement_id"`
	WorkoutPlanID    uint `gorm:"primaryKey;autoIncrement:false" json:"workout_plan_id"`
}

func (WorkoutPlanMealSupplement) TableName() string { return "workout_plan_meal_supplement" }
