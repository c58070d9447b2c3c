package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"blockpoints-bridge/internal/config"
	"blockpoints-bridge/internal/domain/entity"
	domainService "blockpoints-bridge/internal/domain/service"
	"blockpoints-bridge/internal/pkg/apperrors"
)

// Compile-time check
var _ domainService.EventPublisher = (*RabbitPublisher)(nil)

// amqpChannel is the subset of *amqp.Channel the publisher needs.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher sends events as persistent JSON messages to a durable queue.
type RabbitPublisher struct {
	channel amqpChannel
	queue   string
	logger  *zap.Logger
}

// DialRabbitMQ connects to the broker, retrying cfg.Retries times.
func DialRabbitMQ(ctx context.Context, cfg config.RabbitMQConfig, logger *zap.Logger) (*amqp.Connection, error) {
	retries := cfg.Retries
	if retries <= 0 {
		retries = 1
	}

	var lastErr error
	for i := 0; i < retries; i++ {
		conn, err := amqp.Dial(cfg.URL)
		if err == nil {
			logger.Info("Connected to RabbitMQ", zap.Int("attempt", i+1))
			return conn, nil
		}
		lastErr = err

		if i < retries-1 {
			logger.Warn("Failed to connect to RabbitMQ, retrying",
				zap.Int("attempt", i+1), zap.Int("maxAttempts", retries),
				zap.Duration("retryDelay", cfg.RetryDelay), zap.Error(err),
			)
			select {
			case <-time.After(cfg.RetryDelay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: rabbitmq dial cancelled: %v", apperrors.ErrExternalServiceFailure, ctx.Err())
			}
		}
	}
	return nil, fmt.Errorf("%w: rabbitmq unreachable after %d attempts: %v",
		apperrors.ErrExternalServiceFailure, retries, lastErr,
	)
}

// NewRabbitPublisher opens a channel on conn and declares the event queue.
func NewRabbitPublisher(conn *amqp.Connection, queue string, logger *zap.Logger) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	p, err := newRabbitPublisher(ch, queue, logger)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

func newRabbitPublisher(ch amqpChannel, queue string, logger *zap.Logger) (*RabbitPublisher, error) {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return &RabbitPublisher{
		channel: ch,
		queue:   queue,
		logger:  logger.Named("RabbitEventPublisher"),
	}, nil
}

// Publish marshals event and sends it through the default exchange.
func (p *RabbitPublisher) Publish(ctx context.Context, event entity.TransferEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(event.Type),
			MessageId:    fmt.Sprintf("%s-%d", event.TransferID, event.Sequence),
			Timestamp:    event.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to publish to %s: %v", apperrors.ErrExternalServiceFailure, p.queue, err)
	}

	p.logger.Debug("Published event", zap.String("queue", p.queue), zap.Uint64("sequence", event.Sequence))
	return nil
}

// Close closes the channel.
func (p *RabbitPublisher) Close() error {
	if p.channel != nil {
		return p.channel.Close()
	}
	return nil
}
