package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"table-orders/internal/logger"
	"table-orders/internal/models"
)

// SnapshotHandler processes one received menu snapshot
type SnapshotHandler func(ctx context.Context, snapshot models.MenuSnapshot) error

// Subscriber consumes menu snapshots from the fanout exchange
type Subscriber struct {
	conn        *Connection
	logger      *logger.Logger
	consumerTag string
}

// NewSubscriber creates a new menu subscriber
func NewSubscriber(conn *Connection, log *logger.Logger, consumerTag string) *Subscriber {
	return &Subscriber{
		conn:        conn,
		logger:      log,
		consumerTag: consumerTag,
	}
}

// Start consumes menu snapshots until the context is cancelled. Each
// subscriber gets its own exclusive queue, so every connected consumer
// receives every publish.
func (s *Subscriber) Start(ctx context.Context, handler SnapshotHandler) error {
	if s.conn.IsClosed() {
		if err := s.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	queueName, err := s.conn.DeclareSubscriberQueue()
	if err != nil {
		return err
	}

	msgs, err := s.conn.Channel().Consume(
		queueName,     // queue
		s.consumerTag, // consumer
		false,         // auto-ack (we ack manually)
		true,          // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	s.logger.Info("subscriber_started",
		fmt.Sprintf("Subscribed to %s", MenuExchange),
		"", map[string]interface{}{
			"queue":    queueName,
			"consumer": s.consumerTag,
		})

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("subscriber_stopped", "Subscriber stopped by context", "", nil)
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				s.logger.Error("subscriber_channel_closed", "Message channel closed, attempting to reconnect", "", nil, nil)
				if err := s.conn.Reconnect(); err != nil {
					return fmt.Errorf("failed to reconnect after channel closed: %w", err)
				}
				return s.Start(ctx, handler)
			}

			s.processMessage(ctx, d, handler)
		}
	}
}

// processMessage handles a single snapshot delivery
func (s *Subscriber) processMessage(ctx context.Context, delivery amqp091.Delivery, handler SnapshotHandler) {
	var snapshot models.MenuSnapshot
	if err := json.Unmarshal(delivery.Body, &snapshot); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse menu snapshot", "", err, map[string]interface{}{
			"message_size": len(delivery.Body),
		})
		// Malformed snapshots are dropped, not requeued
		if nackErr := delivery.Nack(false, false); nackErr != nil {
			s.logger.Error("message_nack_failed", "Failed to nack message", "", nackErr, nil)
		}
		return
	}

	processingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := handler(processingCtx, snapshot); err != nil {
		s.logger.Error("message_processing_failed", "Failed to process menu snapshot", "", err, map[string]interface{}{
			"version": snapshot.Version,
		})
		if nackErr := delivery.Nack(false, false); nackErr != nil {
			s.logger.Error("message_nack_failed", "Failed to nack message", "", nackErr, nil)
		}
		return
	}

	if ackErr := delivery.Ack(false); ackErr != nil {
		s.logger.Error("message_ack_failed", "Failed to ack message", "", ackErr, nil)
	}
}

// Close stops consuming messages
func (s *Subscriber) Close() error {
	if s.conn != nil && !s.conn.IsClosed() {
		if err := s.conn.Channel().Cancel(s.consumerTag, false); err != nil {
			return fmt.Errorf("failed to cancel consumer: %w", err)
		}
	}
	return nil
}
