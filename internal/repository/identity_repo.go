package repository

import (
	"context"

	"github.com/google/uuid"

	"pickup/gamehub/internal/model"
)

type IdentityRepository interface {
	GetByTypeAndIdentifier(ctx context.Context, idType model.IdentityType, identifier string) (*model.UserIdentity, error)
	UpdateCredentialData(ctx context.Context, id uuid.UUID, data model.CredentialData) error
}
