package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is shared between games and has no owner.
type Location struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(256);not null;default:''" json:"name,omitempty"`
	Address   string    `gorm:"type:varchar(512);not null" json:"address"`
	City      string    `gorm:"type:varchar(128);not null;default:'';index" json:"city"`
	State     string    `gorm:"type:varchar(128);not null;default:'';index" json:"state"`
	Country   string    `gorm:"type:varchar(128);not null;default:'';index" json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

func (Location) TableName() string { return "locations" }

func (l *Location) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
