package models

import "time"

type Admin struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	UserName    string    `gorm:"size:255;not null;unique" json:"user_name"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;not null;unique" json:"email"`
	PhoneNumber string    `gorm:"size:20;not null;unique" json:"phone_number"`
	Gender      *string   `gorm:"size:10" json:"gender"`
	DateOfBirth *string   `gorm:"size:15" json:"date_of_birth"`
	Image       *string   `gorm:"type:text" json:"image"`
	IsVerified  bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Admin) TableName() string { return "admin" }
