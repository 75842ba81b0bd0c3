package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps jobs and users in process. Identifiers use the MongoDB
// ObjectID format so it behaves like the document store.
type MemoryStore struct {
	mu      sync.RWMutex
	jobs    map[string]domain.Job
	users   map[string]domain.User
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:    make(map[string]domain.Job),
		users:   make(map[string]domain.User),
		byEmail: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func checkObjectID(id string) error {
	if !primitive.IsValidObjectID(id) {
		return domain.ErrInvalidID
	}
	return nil
}

func (s *MemoryStore) ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	if filter.Cursor != nil {
		if err := checkObjectID(filter.Cursor.JobID); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	jobs := make([]domain.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		if filter.Cursor == nil || filter.Cursor.after(&job) {
			jobs = append(jobs, job)
		}
	}
	s.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
		}
		return jobs[i].ID < jobs[j].ID
	})

	if n := limit(filter); n > 0 && len(jobs) > n {
		jobs = jobs[:n]
	}
	return jobs, nil
}

func (s *MemoryStore) CreateJob(ctx context.Context, job *domain.Job) error {
	now := s.now()
	job.ID = primitive.NewObjectID().Hex()
	job.CreatedAt = now
	job.UpdatedAt = now

	s.mu.Lock()
	s.jobs[job.ID] = *job
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetJobByID(ctx context.Context, id string) (*domain.Job, error) {
	if err := checkObjectID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &job, nil
}

func (s *MemoryStore) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (*domain.Job, error) {
	if err := checkObjectID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}

	patch.Apply(&job)
	job.UpdatedAt = s.now()
	s.jobs[id] = job
	return &job, nil
}

func (s *MemoryStore) DeleteJob(ctx context.Context, id string) error {
	if err := checkObjectID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(s.jobs, id)
	return nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[user.Email]; taken {
		return domain.ErrEmailTaken
	}

	user.ID = primitive.NewObjectID().Hex()
	user.CreatedAt = s.now()
	s.users[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if err := checkObjectID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user := s.users[id]
	return &user, nil
}

// DeleteUser removes a user. Used to revoke access in tests and local runs.
func (s *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	delete(s.byEmail, user.Email)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close(ctx context.Context) error { return nil }
