package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Paysweep/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeRunCompleted MessageType = "run.completed"
)

// Channel — то, во что Publisher отправляет сообщения (*Connection в проде).
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	ch     Channel
	logger *slog.Logger
	now    func() time.Time
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(ch Channel, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		ch:     ch,
		logger: logger,
		now:    time.Now,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = p.ch.PublishWithContext(
		ctx,
		string(exchange),   // exchange
		string(routingKey), // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
			MessageId:    msg.ID,
			Timestamp:    msg.Timestamp,
			Type:         string(msg.Type),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
	}

	p.logger.Debug("published message",
		"exchange", exchange,
		"routing_key", routingKey,
		"message_id", msg.ID,
		"type", msg.Type,
	)

	return nil
}

// PublishRunCompleted публикует итог прохода.
// Потребители: алертинг и отчёты по сверке.
func (p *Publisher) PublishRunCompleted(ctx context.Context, summary *domain.RunSummary) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeRunCompleted,
		Payload:   summary,
		Timestamp: p.now(),
	}

	return p.Publish(ctx, ExchangeRuns, RoutingKeyCompleted, msg)
}
