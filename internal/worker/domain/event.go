package domain

import "time"

// Job event types consumed by the worker
const (
	EventJobCreated = "job.created"
	EventJobUpdated = "job.updated"
	EventJobDeleted = "job.deleted"
)

// Event is a job lifecycle event as published by the API service
type Event struct {
	EventID    string    `json:"event_id" db:"event_id"`
	Type       string    `json:"type" db:"event_type"`
	JobID      string    `json:"job_id" db:"job_id"`
	Title      string    `json:"title,omitempty" db:"title"`
	UserID     string    `json:"user_id,omitempty" db:"user_id"`
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`
}

// KnownEventType reports whether t is an event type the worker records
func KnownEventType(t string) bool {
	switch t {
	case EventJobCreated, EventJobUpdated, EventJobDeleted:
		return true
	}
	return false
}

// EventMessage is an event taken off the queue, paired with its delivery tag
type EventMessage struct {
	Event       Event
	DeliveryTag uint64
}
