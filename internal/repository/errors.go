package repository

import "errors"

var (
	// ErrCapacityReached is returned by AttendeeRepository.Join when the game
	// has no open slot at commit time.
	ErrCapacityReached = errors.New("game capacity reached")
	// ErrUserGone is returned when the acting user was deleted.
	ErrUserGone = errors.New("user no longer exists")
)
