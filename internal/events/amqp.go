package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeKind = "topic"

var ErrPublisherClosed = errors.New("publisher is closed")

type amqpChannel interface {
	IsClosed() bool
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type amqpConnection interface {
	IsClosed() bool
	Channel() (amqpChannel, error)
	Close() error
}

type dialedConnection struct {
	*amqp.Connection
}

func (c dialedConnection) Channel() (amqpChannel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}

	return ch, nil
}

func dialAMQP(url string) (amqpConnection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	return dialedConnection{conn}, nil
}

// AMQPPublisher publishes JSON events to a durable topic exchange. A closed
// channel is reopened on the next Publish; a dropped connection is replaced.
type AMQPPublisher struct {
	url      string
	exchange string
	logger   *slog.Logger
	dial     func(url string) (amqpConnection, error)

	mu      sync.Mutex
	conn    amqpConnection
	channel amqpChannel
	closed  bool
}

func NewAMQPPublisher(url, exchange string, logger *slog.Logger) (*AMQPPublisher, error) {
	return newAMQPPublisher(url, exchange, logger, dialAMQP)
}

func newAMQPPublisher(
	url, exchange string,
	logger *slog.Logger,
	dial func(url string) (amqpConnection, error),
) (*AMQPPublisher, error) {
	p := &AMQPPublisher{
		url:      url,
		exchange: exchange,
		logger:   logger,
		dial:     dial,
	}

	if err := p.connect(); err != nil {
		return nil, err
	}

	return p, nil
}

// connect reuses a live connection and only replaces the channel. A dead
// connection is closed before a new one is dialed.
func (p *AMQPPublisher) connect() error {
	if p.conn != nil && !p.conn.IsClosed() {
		return p.openChannel(p.conn)
	}

	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
		p.channel = nil
	}

	conn, err := p.dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}

	if err := p.openChannel(conn); err != nil {
		conn.Close()
		return err
	}

	p.conn = conn

	return nil
}

func (p *AMQPPublisher) openChannel(conn amqpConnection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(p.exchange, exchangeKind, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
	}

	p.channel = ch

	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	msg, err := newMessage(routingKey, payload, time.Now())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}

	if p.conn == nil || p.conn.IsClosed() || p.channel == nil || p.channel.IsClosed() {
		p.logger.Warn("broker connection lost, reconnecting", "exchange", p.exchange)

		if err := p.connect(); err != nil {
			return err
		}
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}

	return p.conn.Close()
}

func newMessage(routingKey string, payload any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to encode %s event: %w", routingKey, err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    now.UTC(),
		Type:         routingKey,
		Body:         body,
	}, nil
}
