package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Level string

const (
	LevelUnset        Level = ""
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

func (l Level) Valid() bool {
	switch l {
	case LevelUnset, LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

type Game struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string         `gorm:"type:varchar(256);not null" json:"title"`
	LocationID       *uuid.UUID     `gorm:"type:uuid;index" json:"location_id"`
	GameTime         time.Time      `gorm:"not null" json:"game_time"`
	IsRecurring      bool           `gorm:"not null;default:false" json:"is_recurring"`
	MaxAttendees     int            `gorm:"not null;check:chk_games_max_attendees,max_attendees >= 1" json:"max_attendees"`
	CurrentAttendees int            `gorm:"not null;default:0;check:chk_games_attendee_capacity,current_attendees <= max_attendees" json:"current_attendees"`
	Level            Level          `gorm:"type:varchar(32);not null;default:'';index" json:"level,omitempty"`
	AgeLimit         *int           `json:"age_limit,omitempty"`
	Description      string         `gorm:"type:text;not null;default:''" json:"description,omitempty"`
	CreatedBy        uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by"`
	IsActive         bool           `gorm:"not null;default:true;index" json:"is_active"`
	ClosedAt         *time.Time     `json:"closed_at,omitempty"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}

func (Game) TableName() string { return "games" }

func (g *Game) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// IsFull reports whether the game has no open slot left.
func (g *Game) IsFull() bool {
	return g.CurrentAttendees >= g.MaxAttendees
}

// Attendee records that a user joined a game. The pair is the primary key.
type Attendee struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	GameID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"game_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Attendee) TableName() string { return "attendees" }
