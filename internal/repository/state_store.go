package repository

import (
	"context"
	"time"
)

// StateStore abstracts ephemeral key-value state: refresh-token ids and
// password-reset tokens.
// Implementations: Redis (production) or in-memory (local dev / single instance).
type StateStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Take returns the value and deletes the key in one step, so a token can
	// be redeemed once. A missing key yields (nil, nil).
	Take(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
