package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserExercise is a user's request for a customised exercise program.
type UserExercise struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Weight    decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"weight"`
	Waist     decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"waist"`
	Type      string          `gorm:"size:10;not null" json:"type" validate:"required,max=10"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Image     *string         `gorm:"type:text" json:"image"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

func (UserExercise) TableName() string { return "user_exercise" }

type UserRequestExercise struct {
	UserID         uint `gorm:"not null;index" json:"user_id"`
	UserExerciseID uint `gorm:"primaryKey;autoIncrement:false" json:"user_exercise_id"`
}

func (UserRequestExercise) TableName() string { return "user_request_exercise" }

// UserExerciseExercise links one catalog exercise to the request it answers.
// An answer is the set of rows sharing a user_exercise_id, written once.
type UserExerciseExercise struct {
	ExerciseID     uint `gorm:"primaryKey;autoIncrement:false" json:"exercise_id"`
	UserExerciseID uint `gorm:"not null;index" json:"user_exercise_id"`
}

func (UserExerciseExercise) TableName() string { return "user_exercise_exercise" }

// UserMeal is a user's request for a customised meal plan.
type UserMeal struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Weight    decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"weight"`
	Waist     decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"waist"`
	Type      string          `gorm:"size:10;not null" json:"type" validate:"required,max=10"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Image     *string         `gorm:"type:text" json:"image"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (UserMeal) TableName() string { return "user_meal" }

type UserRequestMeal struct {
	UserID     uint `gorm:"not null;index" json:"user_id"`
	UserMealID uint `gorm:"primaryKey;autoIncrement:false" json:"user_meal_id"`
}

func (UserRequestMeal) TableName() string { return "user_request_meal" }

// UserMealMealSupplement answers a meal request; user_meal_id is unique.
type UserMealMealSupplement struct {
	MealSupplementID uint `gorm:"primaryKey;autoIncrement:false" json:"meal_supplement_id"`
	UserMealID       uint `gorm:"not null;uniqueIndex:uix_user_meal_meal_supplement_user_meal_id" json:"user_meal_id"`
}

func (UserMealMealSupplement) TableName() string { return "user_meal_meal_supplement" }
