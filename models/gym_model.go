package models

import "time"

type Gym struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	OwnerID            uint      `gorm:"not null;index" json:"owner_id"`
	Name               string    `gorm:"size:255;not null" json:"name" validate:"required"`
	LicenseNumber      string    `gorm:"size:100;not null" json:"license_number" validate:"required"`
	LicenseImage       *string   `gorm:"type:text" json:"license_image"`
	Location           *string   `gorm:"type:text" json:"location"`
	Image              *string   `gorm:"type:text" json:"image"`
	SportFacilities    *string   `gorm:"type:text" json:"sport_facilities"`
	WelfareFacilities  *string   `gorm:"type:text" json:"welfare_facilities"`
	Rating             int       `gorm:"default:0;check:check_rating_range,rating BETWEEN 0 AND 5" json:"rating" validate:"gte=0,lte=5"`
	VerificationStatus string    `gorm:"size:50;default:'pending'" json:"verification_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Gym) TableName() string { return "gym" }

type CoachGym struct {
	CoachID uint `gorm:"primaryKey;autoIncrement:false" json:"coach_id"`
	GymID   uint `gorm:"primaryKey;autoIncrement:false" json:"gym_id"`
}

func (CoachGym) TableName() string { return "coach_gym" }

type GymPlanPrice struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	GymID         uint      `gorm:"not null;index" json:"gym_id"`
	SessionCounts int       `gorm:"not null;check:check_session_counts_positive,session_counts >= 0" json:"session_counts" validate:"gte=0"`
	DurationDays  int       `gorm:"not null;check:check_duration_days_positive,duration_days >= 0" json:"duration_days" validate:"gte=0"`
	IsVIP         bool      `gorm:"column:is_vip;default:false" json:"is_vip"`
	Price         int       `gorm:"not null;check:check_price_positive,price >= 0" json:"price" validate:"gte=0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (GymPlanPrice) TableName() string { return "gym_plan_price" }

type GymComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	GymID     uint      `gorm:"not null;index" json:"gym_id"`
	Comment   *string   `gorm:"type:text" json:"comment"`
	Rating    int       `gorm:"default:0;check:check_gym_comment_rating_range,rating BETWEEN 0 AND 5" json:"rating" validate:"gte=0,lte=5"`
	Date      *string   `gorm:"size:100" json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GymComment) TableName() string { return "gym_comment" }

// UserGymRegistration balances are written as given; only the expiry job
// decrements them.
type UserGymRegistration struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;index" json:"user_id"`
	GymID              uint      `gorm:"not null;index" json:"gym_id"`
	GymPlanPriceID     *uint     `json:"gym_plan_price_id"`
	RegisteredSessions int       `gorm:"default:0;check:check_registered_sessions_positive,registered_sessions >= 0" json:"registered_sessions" validate:"gte=0"`
	RegisteredDays     int       `gorm:"default:0;check:check_registered_days_positive,registered_days >= 0" json:"registered_days" validate:"gte=0"`
	IsVIP              bool      `gorm:"column:is_vip;default:false" json:"is_vip"`
	RemainingSessions  int       `gorm:"default:0;check:check_remaining_sessions_positive,remaining_sessions >= 0" json:"remaining_sessions" validate:"gte=0"`
	RemainingDays      int       `gorm:"default:0;check:check_remaining_days_positive,remaining_days >= 0" json:"remaining_days" validate:"gte=0"`
	IsExpired          bool      `gorm:"default:false" json:"is_expired"`
	Date               *string   `gorm:"size:100" json:"date"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (UserGymRegistration) TableName() string { return "user_gym_registration" }
