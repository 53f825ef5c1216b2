package messaging

import (
	"context"
	"fmt"

	"pos-system/internal/logger"
)

// MessageHandler processes a single message body
type MessageHandler func(ctx context.Context, body []byte) error

// Consumer handles message consumption from RabbitMQ
type Consumer struct {
	conn        *Connection
	logger      *logger.Logger
	queueName   string
	consumerTag string
	prefetch    int
}

// NewConsumer creates a new message consumer
func NewConsumer(conn *Connection, log *logger.Logger, queueName, consumerTag string, prefetch int) *Consumer {
	return &Consumer{
		conn:        conn,
		logger:      log,
		queueName:   queueName,
		consumerTag: consumerTag,
		prefetch:    prefetch,
	}
}

// StartConsuming consumes messages until the context is cancelled.
// Messages are acked on handler success and requeued on failure.
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	if c.conn.IsClosed() {
		if err := c.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	err := c.conn.Channel().Qos(c.prefetch, 0, false)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.conn.Channel().Consume(
		c.queueName,   // queue
		c.consumerTag, // consumer
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("consumer_started",
		fmt.Sprintf("Consuming from queue %s", c.queueName), "", map[string]interface{}{
			"queue":    c.queueName,
			"prefetch": c.prefetch,
		})

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			if err := handler(ctx, msg.Body); err != nil {
				c.logger.Error("message_processing_failed",
					"Failed to process message, requeueing", "", err, map[string]interface{}{
						"queue": c.queueName,
					})
				msg.Nack(false, true)
				continue
			}
			msg.Ack(false)
		}
	}
}

// Close closes the consumer's connection
func (c *Consumer) Close() error {
	return c.conn.Close()
}
