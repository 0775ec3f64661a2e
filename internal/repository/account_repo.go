package repository

import (
	"context"

	"github.com/google/uuid"

	"pickup/gamehub/internal/model"
)

// AccountRepository owns the operations that span a user, their identities
// and their profile. Each method is a single transaction.
type AccountRepository interface {
	CreateUserWithProfile(ctx context.Context, user *model.User, identity *model.UserIdentity, profile *model.Profile) error
	// DeleteUserAndProfile removes the user, identities, profile and attendee
	// rows, decrements the counters of the games the user had joined and
	// deactivates the games the user created. gorm.ErrRecordNotFound when the
	// user does not exist; nothing is changed in that case.
	DeleteUserAndProfile(ctx context.Context, userID uuid.UUID) error
}
