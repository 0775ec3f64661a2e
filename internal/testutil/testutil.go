// Package testutil builds an in-memory database with the application schema
// and seeds the rows tests need.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pickup/gamehub/internal/model"
)

// NewDB opens a fresh in-memory SQLite database and migrates it. The pool is
// pinned to a single connection, which keeps the database alive for the
// whole test and serializes concurrent transactions.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts an active user with an empty profile.
func CreateUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := &model.User{Status: model.UserStatusActive}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := db.Create(&model.Profile{UserID: user.ID}).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return user
}

func CreateLocation(t *testing.T, db *gorm.DB, name, city, state, country string) *model.Location {
	t.Helper()
	loc := &model.Location{
		Name:    name,
		Address: name + " street 1",
		City:    city,
		State:   state,
		Country: country,
	}
	if err := db.Create(loc).Error; err != nil {
		t.Fatalf("create location: %v", err)
	}
	return loc
}

// GameOption adjusts a game before CreateGame inserts it.
type GameOption func(*model.Game)

func WithLocation(loc *model.Location) GameOption {
	return func(g *model.Game) {
		id := loc.ID
		g.LocationID = &id
	}
}

func WithCapacity(max, current int) GameOption {
	return func(g *model.Game) {
		g.MaxAttendees = max
		g.CurrentAttendees = current
	}
}

func WithLevel(level model.Level) GameOption {
	return func(g *model.Game) { g.Level = level }
}

func WithCreatedAt(at time.Time) GameOption {
	return func(g *model.Game) { g.CreatedAt = at }
}

// Inactive marks the game closed.
func Inactive() GameOption {
	return func(g *model.Game) {
		g.IsActive = false
		closed := time.Now().UTC()
		g.ClosedAt = &closed
	}
}

// CreateGame inserts an active game owned by owner. Defaults: ten slots, none
// taken, game time tomorrow.
func CreateGame(t *testing.T, db *gorm.DB, owner uuid.UUID, title string, opts ...GameOption) *model.Game {
	t.Helper()
	game := &model.Game{
		Title:        title,
		GameTime:     time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second),
		MaxAttendees: 10,
		CreatedBy:    owner,
		IsActive:     true,
	}
	for _, opt := range opts {
		opt(game)
	}
	// Create writes the column default back over a false IsActive.
	active := game.IsActive
	if err := db.Create(game).Error; err != nil {
		t.Fatalf("create game: %v", err)
	}
	if !active {
		if err := db.Model(game).UpdateColumn("is_active", false).Error; err != nil {
			t.Fatalf("deactivate game: %v", err)
		}
		game.IsActive = false
	}
	return game
}

// AddAttendee inserts an attendee row directly, bypassing the counter.
func AddAttendee(t *testing.T, db *gorm.DB, gameID, userID uuid.UUID) {
	t.Helper()
	if err := db.Create(&model.Attendee{UserID: userID, GameID: gameID}).Error; err != nil {
		t.Fatalf("create attendee: %v", err)
	}
}
