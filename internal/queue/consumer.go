package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reservation-backoffice/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer drains the email queue into a Sender
type Consumer struct {
	url      string
	queue    string
	sender   Sender
	prefetch int
}

func NewConsumer(url, queue string, sender Sender) *Consumer {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Consumer{url: url, queue: queue, sender: sender, prefetch: 10}
}

// Run consumes until ctx is cancelled, reconnecting with backoff when the broker
// connection drops.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			logger.Warn("Email consumer failed to dial broker", "error", err, "retry_in", backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("Email consumer loop ended, reconnecting", "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	log := logger.WithService("email-consumer")
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		log.Warn("Failed to set QoS", "error", err)
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	log.Info("Consuming", "queue", c.queue, "prefetch", c.prefetch)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handle(ctx, d.Body); err != nil {
				log.Error("Failed to deliver queued email", "message_id", d.MessageId, "error", err)
				// not requeued
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, body []byte) error {
	job, err := decodeJob(body)
	if err != nil {
		return err
	}
	logger.ExternalServiceCall("email", string(job.Message.Kind), "job_id", job.ID, "recipients", len(job.Message.To))
	err = c.sender.Send(ctx, job.Message)
	logger.ExternalServiceResult("email", string(job.Message.Kind), err)
	return err
}
