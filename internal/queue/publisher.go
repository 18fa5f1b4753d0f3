package queue

import (
	"context"
	"fmt"
	"time"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// channel is the part of *amqp.Channel the publisher uses
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type dialFunc func(url string) (ch channel, closeConn func() error, err error)

func dialAMQP(url string) (channel, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return ch, conn.Close, nil
}

// Publisher enqueues emails. It satisfies the mailer contract so the email service
// can hand messages to the queue instead of a relay.
type Publisher struct {
	url   string
	queue string
	dial  dialFunc
	now   func() time.Time
}

func NewPublisher(url, queue string) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Publisher{url: url, queue: queue, dial: dialAMQP, now: time.Now}
}

func (p *Publisher) Send(ctx context.Context, msg domain.EmailMessage) error {
	job := newJob(msg, p.now())
	pub, err := job.publishing()
	if err != nil {
		return err
	}

	ch, closeConn, err := p.dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial failed: %w", err)
	}
	defer func() {
		_ = ch.Close()
		_ = closeConn()
	}()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare failed: %w", err)
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish failed: %w", err)
	}
	logger.DebugContext(ctx, "Email queued", "job_id", job.ID, "kind", msg.Kind, "queue", p.queue)
	return nil
}
