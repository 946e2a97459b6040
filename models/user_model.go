package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Password    string    `gorm:"size:255;not null" json:"-" validate:"required"`
	UserName    string    `gorm:"size:255;not null;unique" json:"user_name" validate:"required"`
	Name        string    `gorm:"size:255;not null" json:"name" validate:"required"`
	Email       string    `gorm:"size:255;not null;unique" json:"email" validate:"required,email"`
	PhoneNumber *string   `gorm:"size:20;unique" json:"phone_number"`
	Gender      *string   `gorm:"size:10" json:"gender"`
	DateOfBirth *string   `gorm:"size:15" json:"date_of_birth"`
	Image       *string   `gorm:"type:text" json:"image"`
	IsVerified  bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

type UserMetrics struct {
	ID        uint                `gorm:"primaryKey" json:"id"`
	UserID    uint                `gorm:"not null;unique" json:"user_id"`
	Height    decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"height"`
	Weight    decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"weight"`
	Waist     decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"waist"`
	Injuries  *string             `gorm:"type:text" json:"injuries"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (UserMetrics) TableName() string { return "user_metrics" }
