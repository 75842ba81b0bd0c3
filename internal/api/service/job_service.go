package service

import (
	"context"
	"log/slog"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/cuongbtq/jobboard-be/internal/api/storage"
)

// EventPublisher delivers job lifecycle events
type EventPublisher interface {
	Publish(ctx context.Context, event domain.JobEvent) error
}

// ListOptions pages through jobs. A zero PageSize lists everything.
type ListOptions struct {
	PageSize int
	Cursor   *storage.JobCursor
}

// JobPage is one page of jobs. Next is nil on the last page.
type JobPage struct {
	Jobs []domain.Job
	Next *storage.JobCursor
}

// JobService implements the job CRUD operations on top of a JobStore
type JobService struct {
	store     storage.JobStore
	publisher EventPublisher
	logger    *slog.Logger
}

func NewJobService(store storage.JobStore, publisher EventPublisher, logger *slog.Logger) *JobService {
	return &JobService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns jobs in creation order
func (s *JobService) List(ctx context.Context, opts ListOptions) (*JobPage, error) {
	jobs, err := s.store.ListJobs(ctx, storage.JobFilter{
		PageSize: opts.PageSize,
		Cursor:   opts.Cursor,
	})
	if err != nil {
		return nil, err
	}

	page := &JobPage{Jobs: jobs}
	if opts.PageSize > 0 && len(jobs) > opts.PageSize {
		page.Jobs = jobs[:opts.PageSize]
		last := page.Jobs[len(page.Jobs)-1]
		page.Next = &storage.JobCursor{CreatedAt: last.CreatedAt, JobID: last.ID}
	}
	return page, nil
}

// Create validates and stores a new job. Client-supplied ids and timestamps
// are ignored.
func (s *JobService) Create(ctx context.Context, job domain.Job, actorID string) (*domain.Job, error) {
	job.ID = ""
	if err := domain.ValidateJob(&job); err != nil {
		return nil, err
	}

	if err := s.store.CreateJob(ctx, &job); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.NewJobEvent(domain.EventJobCreated, job.ID, job.Title, actorID))
	return &job, nil
}

func (s *JobService) Get(ctx context.Context, id string) (*domain.Job, error) {
	return s.store.GetJobByID(ctx, id)
}

// Update merges the fields present in patch into the stored job. An empty
// patch returns the job unchanged.
func (s *JobService) Update(ctx context.Context, id string, patch domain.JobPatch, actorID string) (*domain.Job, error) {
	if err := domain.ValidateJobPatch(&patch); err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return s.store.GetJobByID(ctx, id)
	}

	job, err := s.store.UpdateJob(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.NewJobEvent(domain.EventJobUpdated, job.ID, job.Title, actorID))
	return job, nil
}

func (s *JobService) Delete(ctx context.Context, id string, actorID string) error {
	if err := s.store.DeleteJob(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, domain.NewJobEvent(domain.EventJobDeleted, id, "", actorID))
	return nil
}

// publish is best effort; the mutation has already been committed
func (s *JobService) publish(ctx context.Context, event domain.JobEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish job event",
			slog.String("event_id", event.EventID),
			slog.String("type", event.Type),
			slog.String("job_id", event.JobID),
			slog.String("error", err.Error()),
		)
	}
}
