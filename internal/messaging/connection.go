package messaging

import (
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"table-orders/internal/config"
	"table-orders/internal/logger"
)

// MenuExchange is the fanout exchange carrying full menu snapshots. Every
// publish replaces the whole menu; there is no incremental diffing.
const MenuExchange = "menu_fanout"

// Connection wraps the RabbitMQ connection with reconnection logic
type Connection struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *logger.Logger
	url     string
}

// New creates a new RabbitMQ connection
func New(cfg *config.Config, log *logger.Logger) (*Connection, error) {
	conn := &Connection{
		logger: log,
		url:    cfg.RabbitMQURL(),
	}

	if err := conn.connect(); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}

	return conn, nil
}

// connect establishes connection to RabbitMQ with retry logic
func (c *Connection) connect() error {
	maxRetries := 5
	var err error

	for i := 0; i < maxRetries; i++ {
		c.conn, err = amqp091.Dial(c.url)
		if err == nil {
			c.channel, err = c.conn.Channel()
			if err == nil {
				if setupErr := c.setupTopology(); setupErr != nil {
					c.logger.Error("rabbitmq_setup_failed", "Failed to set up topology", "startup", setupErr, nil)
					c.close()
					err = setupErr
				} else {
					return nil
				}
			} else {
				c.conn.Close()
			}
		}

		if i < maxRetries-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			c.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", waitTime),
				"startup", err, nil)
			time.Sleep(waitTime)
		}
	}

	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}

// setupTopology declares the menu fanout exchange
func (c *Connection) setupTopology() error {
	err := c.channel.ExchangeDeclare(
		MenuExchange, // name
		"fanout",     // type
		false,        // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", MenuExchange, err)
	}

	return nil
}

// DeclareSubscriberQueue declares an exclusive auto-delete queue bound to the
// menu exchange. Each subscriber gets its own queue; offline subscribers
// receive nothing, only currently bound queues see a publish.
func (c *Connection) DeclareSubscriberQueue() (string, error) {
	queue, err := c.channel.QueueDeclare(
		"",    // name (server-generated)
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return "", fmt.Errorf("failed to declare subscriber queue: %w", err)
	}

	err = c.channel.QueueBind(
		queue.Name,   // queue name
		"",           // routing key (ignored for fanout)
		MenuExchange, // exchange
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return "", fmt.Errorf("failed to bind subscriber queue: %w", err)
	}

	return queue.Name, nil
}

// Channel returns the current channel
func (c *Connection) Channel() *amqp091.Channel {
	return c.channel
}

// Reconnect re-establishes the connection
func (c *Connection) Reconnect() error {
	c.close()
	return c.connect()
}

// IsClosed checks if the connection is closed
func (c *Connection) IsClosed() bool {
	return c.conn == nil || c.conn.IsClosed()
}

// Close closes the connection
func (c *Connection) Close() error {
	return c.close()
}

func (c *Connection) close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
