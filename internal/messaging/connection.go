package messaging

import (
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"pos-system/internal/config"
	"pos-system/internal/logger"
)

// Exchange and queue names of the POS topology
const (
	TicketsExchange  = "tickets_topic"
	ReceiptsExchange = "receipts_fanout"
	KitchenQueue     = "kitchen_queue"
	ReceiptsQueue    = "receipts_queue"
)

// Connection wraps a RabbitMQ connection with reconnection logic
type Connection struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *logger.Logger
	url     string
}

// New creates a new RabbitMQ connection and declares the POS topology
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

// connect establishes the connection with retry logic
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

// setupTopology declares the exchanges and queues used by the POS
func (c *Connection) setupTopology() error {
	err := c.channel.ExchangeDeclare(
		TicketsExchange, // name
		"topic",         // type
		true,            // durable
		false,           // auto-delete
		false,           // internal
		false,           // no-wait
		nil,             // args
	)
	if err != nil {
		return fmt.Errorf("failed to declare tickets exchange: %w", err)
	}

	err = c.channel.ExchangeDeclare(
		ReceiptsExchange, "fanout", true, false, false, false, nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare receipts exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		KitchenQueue, // name
		true,         // durable
		false,        // auto-delete
		false,        // exclusive
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to declare kitchen queue: %w", err)
	}

	// kitchen tickets are routed by order type: kitchen.dine_in etc.
	err = c.channel.QueueBind(KitchenQueue, "kitchen.*", TicketsExchange, false, nil)
	if err != nil {
		return fmt.Errorf("failed to bind kitchen queue: %w", err)
	}

	_, err = c.channel.QueueDeclare(ReceiptsQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare receipts queue: %w", err)
	}

	err = c.channel.QueueBind(ReceiptsQueue, "", ReceiptsExchange, false, nil)
	if err != nil {
		return fmt.Errorf("failed to bind receipts queue: %w", err)
	}

	return nil
}

// Channel returns the active channel
func (c *Connection) Channel() *amqp091.Channel {
	return c.channel
}

// IsClosed reports whether the connection is closed
func (c *Connection) IsClosed() bool {
	return c.conn == nil || c.conn.IsClosed()
}

// Reconnect re-establishes a dropped connection
func (c *Connection) Reconnect() error {
	c.close()
	return c.connect()
}

// Close closes the channel and connection
func (c *Connection) Close() error {
	c.close()
	return nil
}

func (c *Connection) close() {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
