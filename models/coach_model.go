package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

type Coach struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Password           string    `gorm:"size:255;not null" json:"-" validate:"required"`
	UserName           string    `gorm:"size:255;not null;unique" json:"user_name" validate:"required"`
	Name               string    `gorm:"size:255;not null" json:"name" validate:"required"`
	Email              string    `gorm:"size:255;not null;unique" json:"email" validate:"required,email"`
	PhoneNumber        string    `gorm:"size:20;not null;unique" json:"phone_number" validate:"required"`
	Gender             *string   `gorm:"size:10" json:"gender"`
	Status             bool      `gorm:"default:false" json:"status"`
	DateOfBirth        *string   `gorm:"size:15" json:"date_of_birth"`
	Image              *string   `gorm:"type:text" json:"image"`
	IsVerified         bool      `gorm:"default:false" json:"is_verified"`
	VerificationStatus string    `gorm:"size:50;default:'pending'" json:"verification_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Coach) TableName() string { return "coach" }

type CoachMetrics struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	CoachID           uint                `gorm:"not null;unique" json:"coach_id"`
	Height            decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"height"`
	Weight            decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"weight"`
	Specialization    *string             `gorm:"size:255" json:"specialization"`
	Biography         *string             `gorm:"type:text" json:"biography"`
	Rating            int                 `gorm:"not null;default:0;check:check_coach_rating_range,rating BETWEEN 0 AND 5" json:"rating" validate:"gte=0,lte=5"`
	CoachingID        string              `gorm:"size:100;not null" json:"coaching_id" validate:"required"`
	CoachingCardImage *string             `gorm:"type:text" json:"coaching_card_image"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func (CoachMetrics) TableName() string { return "coach_metrics" }

// CoachPlanPrice is the single price sheet of a coach for custom requests.
type CoachPlanPrice struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CoachID       uint      `gorm:"not null;unique" json:"coach_id"`
	ExercisePrice int       `gorm:"not null;check:check_exercise_price_positive,exercise_price >= 0" json:"exercise_price" validate:"gte=0"`
	MealPrice     int       `gorm:"not null;check:check_meal_price_positive,meal_price >= 0" json:"meal_price" validate:"gte=0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (CoachPlanPrice) TableName() string { return "coach_plan_price" }

type CoachComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CoachID   uint      `gorm:"not null;index" json:"coach_id"`
	Comment   *string   `gorm:"type:text" json:"comment"`
	Rating    int       `gorm:"default:0;check:check_coach_comment_rating_range,rating BETWEEN 0 AND 5" json:"rating" validate:"gte=0,lte=5"`
	Date      *string   `gorm:"size:100" json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CoachComment) TableName() string { return "coach_comment" }
