package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/cuongbtq/jobboard-be/shared/rabbitmq"
)

// Sender is the part of the RabbitMQ client the publisher needs
type Sender interface {
	PublishWithRetry(ctx context.Context, msg rabbitmq.Message) error
}

// RabbitPublisher sends job events to the configured exchange
type RabbitPublisher struct {
	sender Sender
	logger *slog.Logger
}

func NewRabbitPublisher(sender Sender, logger *slog.Logger) *RabbitPublisher {
	return &RabbitPublisher{
		sender: sender,
		logger: logger,
	}
}

func (p *RabbitPublisher) Publish(ctx context.Context, event domain.JobEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal job event: %w", err)
	}

	msg := rabbitmq.Message{
		Body:        body,
		ContentType: "application/json",
		MessageID:   event.EventID,
		Type:        event.Type,
	}

	if err := p.sender.PublishWithRetry(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish job event: %w", err)
	}

	p.logger.Debug("Job event published",
		slog.String("event_id", event.EventID),
		slog.String("type", event.Type),
		slog.String("job_id", event.JobID),
	)
	return nil
}

// NopPublisher drops every event. Used when RabbitMQ is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event domain.JobEvent) error { return nil }
