package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/cuongbtq/jobboard-be/internal/api/model"
	"github.com/cuongbtq/jobboard-be/shared/postgresql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures
const uniqueViolation = "23505"

// Schema is applied at start-up by NewPostgresStore
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		job_id                UUID PRIMARY KEY,
		title                 TEXT NOT NULL,
		type                  TEXT NOT NULL,
		description           TEXT NOT NULL,
		company_name          TEXT NOT NULL,
		company_contact_email TEXT NOT NULL,
		company_contact_phone TEXT NOT NULL,
		created_at            TIMESTAMPTZ NOT NULL,
		updated_at            TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs (created_at, job_id)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id           UUID PRIMARY KEY,
		name              TEXT NOT NULL,
		email             TEXT NOT NULL UNIQUE,
		password_hash     TEXT NOT NULL,
		phone_number      TEXT NOT NULL,
		gender            TEXT NOT NULL,
		date_of_birth     TEXT NOT NULL,
		membership_status TEXT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL
	)`,
}

const jobColumns = `job_id, title, type, description,
	company_name, company_contact_email, company_contact_phone,
	created_at, updated_at`

const userColumns = `user_id, name, email, password_hash, phone_number,
	gender, date_of_birth, membership_status, created_at`

// PostgresStore is the relational backend. Identifiers are UUIDs.
type PostgresStore struct {
	client *postgresql.Client
	db     *sqlx.DB
}

// NewPostgresStore applies the schema and returns the store
func NewPostgresStore(ctx context.Context, client *postgresql.Client) (*PostgresStore, error) {
	if err := client.Migrate(ctx, Schema...); err != nil {
		return nil, err
	}

	return &PostgresStore{
		client: client,
		db:     client.GetDB(),
	}, nil
}

// checkUUID accepts only the canonical 36-character form. uuid.Parse also
// takes the urn:uuid: prefix, which the uuid column type rejects.
func checkUUID(id string) error {
	if len(id) != 36 {
		return domain.ErrInvalidID
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrInvalidID
	}
	return nil
}

// TIMESTAMPTZ has microsecond precision
func postgresNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *PostgresStore) ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if c := filter.Cursor; c != nil {
		if err := checkUUID(c.JobID); err != nil {
			return nil, err
		}
		query += fmt.Sprintf(" AND (created_at, job_id) > ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, c.CreatedAt, c.JobID)
		argIdx += 2
	}

	query += " ORDER BY created_at ASC, job_id ASC"

	if n := limit(filter); n > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, n)
	}

	var rows []model.JobRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	jobs := make([]domain.Job, len(rows))
	for i := range rows {
		jobs[i] = rows[i].ToDomain()
	}
	return jobs, nil
}

func (s *PostgresStore) CreateJob(ctx context.Context, job *domain.Job) error {
	now := postgresNow()
	job.ID = uuid.NewString()
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES (
			:job_id, :title, :type, :description,
			:company_name, :company_contact_email, :company_contact_phone,
			:created_at, :updated_at
		)
	`

	if _, err := s.db.NamedExecContext(ctx, query, model.NewJobRow(job)); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJobByID(ctx context.Context, id string) (*domain.Job, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}

	var row model.JobRow
	err := s.db.GetContext(ctx, &row, `SELECT `+jobColumns+` FROM jobs WHERE job_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	job := row.ToDomain()
	return &job, nil
}

func (s *PostgresStore) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (*domain.Job, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}

	var company domain.CompanyPatch
	if patch.Company != nil {
		company = *patch.Company
	}

	// NULL parameters keep the current column value
	query := `
		UPDATE jobs
		SET title                 = COALESCE($2, title),
		    type                  = COALESCE($3, type),
		    description           = COALESCE($4, description),
		    company_name          = COALESCE($5, company_name),
		    company_contact_email = COALESCE($6, company_contact_email),
		    company_contact_phone = COALESCE($7, company_contact_phone),
		    updated_at            = $8
		WHERE job_id = $1
		RETURNING ` + jobColumns

	var row model.JobRow
	err := s.db.GetContext(ctx, &row, query,
		id,
		patch.Title,
		patch.Type,
		patch.Description,
		company.Name,
		company.ContactEmail,
		company.ContactPhone,
		postgresNow(),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	job := row.ToDomain()
	return &job, nil
}

func (s *PostgresStore) DeleteJob(ctx context.Context, id string) error {
	if err := checkUUID(id); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE job_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = postgresNow()

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (
			:user_id, :name, :email, :password_hash, :phone_number,
			:gender, :date_of_birth, :membership_status, :created_at
		)
	`

	if _, err := s.db.NamedExecContext(ctx, query, model.NewUserRow(user)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *PostgresStore) getUser(ctx context.Context, query string, arg string) (*domain.User, error) {
	var row model.UserRow
	err := s.db.GetContext(ctx, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return row.ToDomain(), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.client.HealthCheck(ctx)
}

func (s *PostgresStore) Close(ctx context.Context) error {
	return s.client.Close()
}
