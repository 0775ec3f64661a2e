package repository

import (
	"context"

	"github.com/google/uuid"

	"pickup/gamehub/internal/model"
)

// GameQuery is the predicate and window of a directory listing.
// A nil LocationIDs means "no location restriction"; callers resolve the ids
// beforehand and never pass an empty, non-nil slice.
type GameQuery struct {
	TitleContains string
	Level         model.Level
	LocationIDs   []uuid.UUID
	Offset        int
	Limit         int
}

type GameRepository interface {
	// Create inserts the game. When location is non-nil it is inserted first in
	// the same transaction and game.LocationID is pointed at it.
	Create(ctx context.Context, game *model.Game, location *model.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Game, error)
	// ListActive returns one window of active games plus the count of all rows
	// matching the predicate, ignoring the window.
	ListActive(ctx context.Context, q GameQuery) ([]model.Game, int64, error)
	// Update writes the mutable columns of game. current_attendees is never written.
	Update(ctx context.Context, game *model.Game) error
	// Delete removes the game together with its attendee rows.
	Delete(ctx context.Context, id uuid.UUID) error
}
