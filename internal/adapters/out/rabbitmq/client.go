// Package rabbitmq publishes user-facing notifications to a RabbitMQ topic
// exchange with publisher confirms.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	ErrPublishNacked    = errors.New("publish nacked by broker")
	ErrConnectionClosed = errors.New("rabbitmq connection is closed")
)

// Client is a single AMQP channel in confirm mode bound to one topic
// exchange. Publish calls are serialized so each waits for its own confirm.
type Client struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string

	mu   sync.Mutex
	acks <-chan amqp.Confirmation
}

// Dial connects to url, enables publisher confirms and declares exchange as
// a durable topic exchange.
func Dial(url, exchange string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}

	return &Client{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		acks:     ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

// Publish sends a persistent JSON message with routing key and waits for the
// broker's confirm or ctx.
func (c *Client) Publish(ctx context.Context, key string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn.IsClosed() {
		return ErrConnectionClosed
	}

	err := c.ch.PublishWithContext(ctx, c.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return err
	}

	select {
	case conf, ok := <-c.acks:
		if !ok {
			return ErrConnectionClosed
		}
		if !conf.Ack {
			return ErrPublishNacked
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Channel exposes the underlying AMQP channel, e.g. to bind queues in tests.
func (c *Client) Channel() *amqp.Channel {
	return c.ch
}

func (c *Client) Close() error {
	return errors.Join(c.ch.Close(), c.conn.Close())
}
