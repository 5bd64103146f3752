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

// Publisher broadcasts menu snapshots to all current subscribers
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new menu publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishMenu publishes a full menu snapshot to the fanout exchange. The
// broadcast is best-effort; the persisted catalog remains the source of
// truth, so admin writes must land in the store before this is called.
func (p *Publisher) PublishMenu(ctx context.Context, snapshot models.MenuSnapshot) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal menu snapshot: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: 1, // transient, the store is the durability layer
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		MenuExchange, // exchange
		"",           // routing key (ignored for fanout)
		false,        // mandatory
		false,        // immediate
		publishing,
	)

	if err != nil {
		p.logger.Error("menu_publish_failed",
			"Failed to publish menu snapshot",
			"", err, map[string]interface{}{
				"version": snapshot.Version,
			})
		return fmt.Errorf("failed to publish menu snapshot: %w", err)
	}

	p.logger.Debug("menu_published",
		"Published menu snapshot",
		"", map[string]interface{}{
			"version":      snapshot.Version,
			"item_count":   len(snapshot.Items),
			"message_size": len(body),
		})

	return nil
}

// Close closes the publisher
func (p *Publisher) Close() error {
	return p.conn.Close()
}
