// Package queue moves rendered emails through RabbitMQ so request handlers do not wait
// on the mail relay. The API process publishes, cmd/mailer consumes.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"reservation-backoffice/internal/domain"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultQueue = "backoffice.email"

// EmailJob is the message body published on the email queue
type EmailJob struct {
	ID       string              `json:"id"`
	Message  domain.EmailMessage `json:"message"`
	QueuedAt time.Time           `json:"queued_at"`
}

// Sender delivers an email synchronously
type Sender interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}

func newJob(msg domain.EmailMessage, now time.Time) EmailJob {
	return EmailJob{ID: uuid.NewString(), Message: msg, QueuedAt: now.UTC()}
}

func (j EmailJob) publishing() (amqp.Publishing, error) {
	body, err := json.Marshal(j)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal email job: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    j.ID,
		Type:         string(j.Message.Kind),
		Timestamp:    j.QueuedAt,
		Body:         body,
	}, nil
}

func decodeJob(body []byte) (EmailJob, error) {
	var j EmailJob
	if err := json.Unmarshal(body, &j); err != nil {
		return j, fmt.Errorf("unmarshal email job: %w", err)
	}
	if len(j.Message.To) == 0 {
		return j, fmt.Errorf("email job %s has no recipient", j.ID)
	}
	return j, nil
}
