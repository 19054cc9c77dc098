package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connection — AMQP соединение с одним каналом.
//
// Воркер живёт один проход, поэтому reconnect не нужен: если брокер
// недоступен, событие просто не будет опубликовано.
type Connection struct {
	logger *slog.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
}

// Dial подключается к RabbitMQ и открывает канал.
func Dial(url string, logger *slog.Logger) (*Connection, error) {
	if url == "" {
		return nil, ErrNoURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	logger.Debug("connected to RabbitMQ")

	return &Connection{logger: logger, conn: conn, channel: ch}, nil
}

// WithChannel выполняет функцию с текущим каналом.
func (c *Connection) WithChannel(ctx context.Context, fn func(ch *amqp.Channel) error) error {
	c.mu.RLock()
	ch, closed := c.channel, c.closed
	c.mu.RUnlock()

	if closed || ch == nil {
		return ErrClosed
	}

	return fn(ch)
}

// PublishWithContext публикует сообщение в текущий канал.
func (c *Connection) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return c.WithChannel(ctx, func(ch *amqp.Channel) error {
		return ch.PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
	})
}

// Close закрывает канал и соединение. Повторный вызов ничего не делает.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	c.logger.Debug("connection closed")
	return nil
}

// IsConnected проверяет, установлено ли соединение.
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.conn == nil || c.closed {
		return false
	}

	return !c.conn.IsClosed()
}
