package repository

import (
	"context"

	"github.com/google/uuid"

	"pickup/gamehub/internal/model"
)

// ProfileUpdate lists the columns to overwrite; nil fields are left alone.
type ProfileUpdate struct {
	FullName  *string
	Username  *string
	Bio       *string
	Location  *string
	AvatarURL *string
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*model.Profile, error)
	// UsernameTaken reports whether another live profile uses username, ignoring case.
	UsernameTaken(ctx context.Context, username string, exceptUserID uuid.UUID) (bool, error)
}
