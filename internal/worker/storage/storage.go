package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobboard-be/internal/worker/domain"
	"github.com/jmoiron/sqlx"
)

// Schema creates the audit table the worker writes to
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS job_events (
		event_id    UUID PRIMARY KEY,
		event_type  TEXT NOT NULL,
		job_id      TEXT NOT NULL,
		title       TEXT NOT NULL DEFAULT '',
		user_id     TEXT NOT NULL DEFAULT '',
		occurred_at TIMESTAMPTZ NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_job_events_job_id ON job_events (job_id, occurred_at)`,
}

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// RecordEvent inserts event into the audit table. It reports false when the
// event id was already recorded, which happens on redelivery.
func (s *Storage) RecordEvent(ctx context.Context, event *domain.Event) (bool, error) {
	query := `
		INSERT INTO job_events (event_id, event_type, job_id, title, user_id, occurred_at)
		VALUES (:event_id, :event_type, :job_id, :title, :user_id, :occurred_at)
		ON CONFLICT (event_id) DO NOTHING
	`

	result, err := s.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return false, fmt.Errorf("failed to record job event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		s.logger.Info("Job event already recorded",
			slog.String("event_id", event.EventID),
		)
		return false, nil
	}

	return true, nil
}

