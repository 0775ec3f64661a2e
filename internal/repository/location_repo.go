package repository

import (
	"context"

	"github.com/google/uuid"

	"pickup/gamehub/internal/model"
)

// LocationMatch selects locations by exact attribute values. Empty fields are ignored.
type LocationMatch struct {
	State   string
	City    string
	Country string
}

func (m LocationMatch) IsEmpty() bool {
	return m.State == "" && m.City == "" && m.Country == ""
}

type LocationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error)
	List(ctx context.Context) ([]model.Location, error)
	// FindIDs returns the ids of locations matching every non-empty field of m.
	FindIDs(ctx context.Context, m LocationMatch) ([]uuid.UUID, error)
}
