package handler

import (
	"log/slog"

	"github.com/cuongbtq/jobboard-be/internal/api/service"
	"github.com/cuongbtq/jobboard-be/internal/api/storage"
)

// UserIDKey is the gin context key holding the authenticated user id
const UserIDKey = "user_id"

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger      *slog.Logger
	ServiceName string
	Store       storage.Store
	Jobs        *service.JobService
	Users       *service.UserService // nil when AuthEnabled is false
	AuthEnabled bool
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger *slog.Logger
	jobs   *service.JobService
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger: deps.Logger,
		jobs:   deps.Jobs,
	}
}

// UserHandler handles signup and login
type UserHandler struct {
	logger *slog.Logger
	users  *service.UserService
}

func NewUserHandler(deps *Dependencies) *UserHandler {
	return &UserHandler{
		logger: deps.Logger,
		users:  deps.Users,
	}
}
