package service

import "errors"

var (
	// Directory
	ErrInvalidPagination    = errors.New("page and page size must be positive")
	ErrDirectoryUnavailable = errors.New("game directory unavailable")

	// Participation
	ErrGameNotFound     = errors.New("game not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrNotGameOwner     = errors.New("game does not belong to this user")
	ErrAlreadyJoined    = errors.New("user already joined this game")
	ErrGameFull         = errors.New("game is full")
	ErrValidationFailed = errors.New("validation failed")
	ErrStorageFailed    = errors.New("storage operation failed")

	// Accounts
	ErrForbidden             = errors.New("operation not permitted for this user")
	ErrAccountDeletionFailed = errors.New("account deletion failed")
	ErrIdentityAlreadyExists = errors.New("identity already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrRefreshTokenInvalid   = errors.New("refresh token invalid or revoked")
	ErrResetTokenInvalid     = errors.New("reset token invalid or expired")
	ErrUserNotFound          = errors.New("user not found")
	ErrUserDisabled          = errors.New("user is disabled or banned")
	ErrProfileNotFound       = errors.New("profile not found")
	ErrUsernameTaken         = errors.New("username already taken")
)
