package models

import (
	"time"

	"github.com/google/uuid"
)

type Media struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StorageID   string    `gorm:"type:text;not null" json:"-"`
	Filename    string    `gorm:"size:255;not null" json:"filename"`
	ContentType string    `gorm:"size:255" json:"content_type"`
	Size        int64     `json:"size"`
	UserEmail   string    `gorm:"size:255;not null;index" json:"user_email"`
	UploadDate  time.Time `gorm:"autoCreateTime" json:"upload_date"`
}

func (Media) TableName() string { return "media" }
