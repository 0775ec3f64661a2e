package repository

import (
	"context"

	"github.com/google/uuid"

	"pickup/gamehub/internal/model"
)

type AttendeeRepository interface {
	Exists(ctx context.Context, gameID, userID uuid.UUID) (bool, error)
	// Join inserts the attendee row and increments the game's counter in one
	// transaction. It fails with gorm.ErrDuplicatedKey when the pair exists,
	// ErrCapacityReached when no slot is left, ErrUserGone when the user was
	// deleted and gorm.ErrRecordNotFound when the game is gone.
	Join(ctx context.Context, gameID, userID uuid.UUID) (*model.Attendee, error)
	CountByGame(ctx context.Context, gameID uuid.UUID) (int64, error)
}
