package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// RoutingKeyAssignmentConfirmed routes assignment events on the exchange
const RoutingKeyAssignmentConfirmed = "assignment.confirmed"

// Publisher pushes events to RabbitMQ. A nil Publisher (broker not
// configured) drops events silently so local setups run without a broker.
type Publisher struct {
	conn     *amqp.Connection
	exchange string

	// amqp channels are not safe for concurrent publishes
	mu sync.Mutex
	ch *amqp.Channel
}

// NewPublisher connects to the broker and declares the event exchange.
// An empty URL disables publishing and returns a nil Publisher.
func NewPublisher(url, exchange string) (*Publisher, error) {
	if url == "" {
		log.Warn().Msg("AMQP_URL not set, assignment events disabled")
		return nil, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("exchange declare: %w", err)
	}

	log.Info().Str("exchange", exchange).Msg("RabbitMQ connected")
	return &Publisher{conn: conn, exchange: exchange, ch: ch}, nil
}

// PublishAssignmentConfirmed emits one event. Failures are logged and
// returned, but callers treat them as non-fatal: a lost event never fails
// the assignment itself.
func (p *Publisher) PublishAssignmentConfirmed(ctx context.Context, event AssignmentConfirmedEvent) error {
	if p == nil || p.ch == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Assignment event marshal failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, p.exchange, RoutingKeyAssignmentConfirmed, false, false, pub); err != nil {
		log.Error().Err(err).Msg("Assignment event publish failed")
		return err
	}

	return nil
}

// Close releases the channel and connection
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
