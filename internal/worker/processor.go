package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobboard-be/internal/worker/domain"
)

// processEvent records a single event in the audit table
func (w *Worker) processEvent(ctx context.Context, msg *domain.EventMessage) error {
	event := &msg.Event

	eventCtx := ctx
	if w.eventTimeout > 0 {
		var cancel context.CancelFunc
		eventCtx, cancel = context.WithTimeout(ctx, w.eventTimeout)
		defer cancel()
	}

	recorded, err := w.recorder.RecordEvent(eventCtx, event)
	if err != nil {
		// Database errors are treated as transient
		return domain.NewRetryableError(fmt.Errorf("failed to record event %s: %w", event.EventID, err))
	}

	if !recorded {
		w.logger.Info("Skipping duplicate job event",
			slog.String("event_id", event.EventID),
			slog.String("type", event.Type),
		)
		return nil
	}

	w.logger.Info("Job event recorded",
		slog.String("event_id", event.EventID),
		slog.String("type", event.Type),
		slog.String("job_id", event.JobID),
		slog.String("user_id", event.UserID),
	)
	return nil
}
