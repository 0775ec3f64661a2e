package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the public face of a user. Exactly one per user.
type Profile struct {
	UserID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	FullName  string         `gorm:"type:varchar(128);not null;default:''" json:"full_name"`
	Username  string         `gorm:"type:varchar(64);not null;default:''" json:"username"`
	Bio       string         `gorm:"type:text;not null;default:''" json:"bio"`
	Location  string         `gorm:"type:varchar(256);not null;default:''" json:"location"`
	AvatarURL string         `gorm:"type:varchar(1024);not null;default:''" json:"avatar_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string { return "profiles" }
