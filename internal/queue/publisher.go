package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ChangesQueue is the durable queue change events are routed to.
const ChangesQueue = "portfolio.changed"

// Publisher delivers change events.  Handlers treat a failed publish as
// non-fatal.
type Publisher interface {
	Publish(ctx context.Context, ev ContentChangedEvent) error
}

// NopPublisher drops every event.  It is used when auditing is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ContentChangedEvent) error { return nil }

// ErrBrokerUnavailable is returned without dialing while the publisher is
// cooling down after a failed connection attempt.
var ErrBrokerUnavailable = errors.New("broker unavailable")

// AMQPPublisher publishes events to RabbitMQ over one long-lived connection
// and channel, opened on first use.  A closed connection is replaced on the
// next Publish.  After a failed dial no new dial is attempted for Cooldown,
// so a broker outage costs at most one DialTimeout per Cooldown.
type AMQPPublisher struct {
	URL         string
	DialTimeout time.Duration
	Cooldown    time.Duration

	mu         sync.Mutex
	conn       *amqp.Connection
	ch         *amqp.Channel
	retryAfter time.Time
	now        func() time.Time
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url, DialTimeout: 3 * time.Second, Cooldown: 10 * time.Second, now: time.Now}
}

// channel returns the open channel, dialing when there is none.  p.mu must
// be held.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	now := p.now()
	if now.Before(p.retryAfter) {
		return nil, ErrBrokerUnavailable
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.DialTimeout),
	})
	if err != nil {
		p.retryAfter = now.Add(p.Cooldown)
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(ChangesQueue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

// reset drops the current connection.  p.mu must be held.
func (p *AMQPPublisher) reset() {
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

// Publish sends ev to ChangesQueue as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev ContentChangedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Kind,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", ChangesQueue, false, false, pub); err != nil {
		p.reset()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close shuts the connection down.  A later Publish reconnects.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}
