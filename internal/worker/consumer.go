package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobboard-be/internal/worker/domain"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// setupConsumer sets up RabbitMQ consumer with QoS and returns delivery channel
func (w *Worker) setupConsumer() (<-chan amqp.Delivery, error) {
	if err := w.consumer.SetQoS(w.prefetchCount); err != nil {
		return nil, err
	}

	w.logger.Info("RabbitMQ QoS configured",
		slog.Int("prefetch_count", w.prefetchCount),
	)

	deliveries, err := w.consumer.Consume(w.workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	w.logger.Info("RabbitMQ consumer started",
		slog.String("worker_id", w.workerID),
	)

	return deliveries, nil
}

// parseEvent decodes and checks a delivery body
func parseEvent(body []byte) (*domain.Event, error) {
	var event domain.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
	}

	if _, err := uuid.Parse(event.EventID); err != nil {
		return nil, fmt.Errorf("%w: event_id must be a UUID", domain.ErrInvalidEvent)
	}

	if !domain.KnownEventType(event.Type) {
		return nil, fmt.Errorf("%w: unknown type %q", domain.ErrInvalidEvent, event.Type)
	}

	if event.JobID == "" {
		return nil, fmt.Errorf("%w: job_id is required", domain.ErrInvalidEvent)
	}

	if event.OccurredAt.IsZero() {
		return nil, fmt.Errorf("%w: occurred_at is required", domain.ErrInvalidEvent)
	}

	return &event, nil
}

// startMessageDispatcher listens to RabbitMQ deliveries and dispatches events to the worker pool
func (w *Worker) startMessageDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) {
	w.logger.Info("Message dispatcher started",
		slog.String("worker_id", w.workerID),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Message dispatcher stopped - context canceled")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("RabbitMQ delivery channel closed")
				return
			}

			event, err := parseEvent(delivery.Body)
			if err != nil {
				w.logger.Error("Dropping malformed job event",
					slog.String("error", err.Error()),
					slog.String("message_id", delivery.MessageId),
				)
				// NACK without requeue: a malformed message never becomes valid
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					w.logger.Error("Failed to NACK malformed message",
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			msg := &message{
				EventMessage: &domain.EventMessage{
					Event:       *event,
					DeliveryTag: delivery.DeliveryTag,
				},
				acker: delivery.Acknowledger,
			}

			select {
			case w.eventsChan <- msg:
				w.logger.Debug("Event dispatched to worker pool",
					slog.String("event_id", event.EventID),
					slog.Uint64("delivery_tag", delivery.DeliveryTag),
				)
			case <-ctx.Done():
				w.logger.Info("Message dispatcher stopped while dispatching event")
				// NACK the message so it can be reprocessed
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					w.logger.Error("Failed to NACK message on shutdown",
						slog.String("error", nackErr.Error()),
					)
				}
				return
			}
		}
	}
}
