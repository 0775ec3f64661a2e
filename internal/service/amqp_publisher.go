package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"pickup/gamehub/internal/config"
)

type amqpEventPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewAMQPEventPublisher connects to the broker and declares a durable topic
// exchange. Events are routed by their type, e.g. "game.joined".
func NewAMQPEventPublisher(cfg config.EventsConfig) (EventPublisher, error) {
	if strings.TrimSpace(cfg.AMQPURL) == "" {
		return nil, fmt.Errorf("events amqp_url is required")
	}
	if strings.TrimSpace(cfg.Exchange) == "" {
		return nil, fmt.Errorf("events exchange is required")
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // autoDelete
		false,        // internal
		false,        // noWait
		nil,          // arguments
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	return &amqpEventPublisher{conn: conn, channel: ch, exchange: cfg.Exchange}, nil
}

func (p *amqpEventPublisher) Publish(ctx context.Context, evt GameEvent) error {
	msg, err := newPublishing(evt)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.PublishWithContext(ctx,
		p.exchange,       // exchange
		string(evt.Type), // routing key
		false,            // mandatory
		false,            // immediate
		msg,
	)
}

func newPublishing(evt GameEvent) (amqp.Publishing, error) {
	if evt.ID == uuid.Nil {
		evt.ID = uuid.New()
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.ID.String(),
		Timestamp:    evt.OccurredAt,
		Type:         string(evt.Type),
		Body:         body,
	}, nil
}

func (p *amqpEventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}
