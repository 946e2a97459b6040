package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionFailed    = "failed"
)

type TransactionLog struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Amount    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Reason    string          `gorm:"size:255;not null" json:"reason" validate:"required"`
	Status    string          `gorm:"size:50;not null" json:"status" validate:"required"`
	Date      string          `gorm:"type:text;not null" json:"date" validate:"required"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (TransactionLog) TableName() string { return "transaction_log" }

type UserTransactionLog struct {
	TransactionID uint `gorm:"primaryKey;autoIncrement:false" json:"transaction_id"`
	UserID        uint `gorm:"not null;index" json:"user_id"`
}

func (UserTransactionLog) TableName() string { return "user_transaction_log" }
