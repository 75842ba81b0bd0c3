package storage

import (
	"context"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
)

// JobStore persists job postings. Implementations return domain.ErrInvalidID
// for identifiers outside their format and domain.ErrJobNotFound for
// well-formed identifiers with no record.
type JobStore interface {
	ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, error)
	CreateJob(ctx context.Context, job *domain.Job) error
	GetJobByID(ctx context.Context, id string) (*domain.Job, error)
	UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (*domain.Job, error)
	DeleteJob(ctx context.Context, id string) error
}

// UserStore persists user accounts. CreateUser returns domain.ErrEmailTaken
// when the email is already registered.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Store is a complete backend for the API service
type Store interface {
	JobStore
	UserStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// JobFilter pages through jobs in creation order. A zero PageSize returns
// every job after Cursor. Otherwise up to PageSize+1 jobs are returned so the
// caller can tell whether another page exists.
type JobFilter struct {
	PageSize int
	Cursor   *JobCursor
}

// JobCursor is the position of the last job of the previous page
type JobCursor struct {
	CreatedAt time.Time
	JobID     string
}

// after reports whether job sorts strictly after the cursor
func (c *JobCursor) after(job *domain.Job) bool {
	if !job.CreatedAt.Equal(c.CreatedAt) {
		return job.CreatedAt.After(c.CreatedAt)
	}
	return job.ID > c.JobID
}

func limit(filter JobFilter) int {
	if filter.PageSize <= 0 {
		return 0
	}
	return filter.PageSize + 1
}
