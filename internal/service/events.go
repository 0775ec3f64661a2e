package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventType string

const (
	EventGameCreated EventType = "game.created"
	EventGameUpdated EventType = "game.updated"
	EventGameDeleted EventType = "game.deleted"
	EventGameJoined  EventType = "game.joined"
)

// GameEvent is emitted after a participation change has been committed.
// ID is unique per event; consumers deduplicate on it.
type GameEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	GameID     uuid.UUID `json:"game_id"`
	UserID     uuid.UUID `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher delivers game events to downstream consumers (notifications,
// feeds). Delivery is best effort: a failed publish never undoes the change.
type EventPublisher interface {
	Publish(ctx context.Context, evt GameEvent) error
	Close() error
}

type logEventPublisher struct {
	logger *zap.Logger
}

// NewLogEventPublisher writes events to the log instead of a broker.
func NewLogEventPublisher(logger *zap.Logger) EventPublisher {
	return &logEventPublisher{logger: logger}
}

func (p *logEventPublisher) Publish(_ context.Context, evt GameEvent) error {
	p.logger.Info("game event",
		zap.String("event_id", evt.ID.String()),
		zap.String("type", string(evt.Type)),
		zap.String("game_id", evt.GameID.String()),
		zap.String("user_id", evt.UserID.String()),
		zap.Time("occurred_at", evt.OccurredAt),
	)
	return nil
}

func (p *logEventPublisher) Close() error { return nil }
