package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job lifecycle event types
const (
	EventJobCreated = "job.created"
	EventJobUpdated = "job.updated"
	EventJobDeleted = "job.deleted"
)

// JobEvent is published after every successful job mutation
type JobEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	JobID      string    `json:"job_id"`
	Title      string    `json:"title,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewJobEvent builds an event for jobID. userID is empty on the open variant.
func NewJobEvent(eventType, jobID, title, userID string) JobEvent {
	return JobEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		JobID:      jobID,
		Title:      title,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}
