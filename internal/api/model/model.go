package model

import (
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompanyDocument is the embedded company sub-document
type CompanyDocument struct {
	Name         string `bson:"name"`
	ContactEmail string `bson:"contactEmail"`
	ContactPhone string `bson:"contactPhone"`
}

// JobDocument is a job as stored in the MongoDB "jobs" collection
type JobDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Type        string             `bson:"type"`
	Description string             `bson:"description"`
	Company     CompanyDocument    `bson:"company"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// NewJobDocument converts a domain job; the ID is left for the caller
func NewJobDocument(job *domain.Job) *JobDocument {
	return &JobDocument{
		Title:       job.Title,
		Type:        job.Type,
		Description: job.Description,
		Company: CompanyDocument{
			Name:         job.Company.Name,
			ContactEmail: job.Company.ContactEmail,
			ContactPhone: job.Company.ContactPhone,
		},
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}

func (d *JobDocument) ToDomain() domain.Job {
	return domain.Job{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Type:        d.Type,
		Description: d.Description,
		Company: domain.Company{
			Name:         d.Company.Name,
			ContactEmail: d.Company.ContactEmail,
			ContactPhone: d.Company.ContactPhone,
		},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// UserDocument is a user as stored in the MongoDB "users" collection
type UserDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Email            string             `bson:"email"`
	Password         string             `bson:"password"`
	PhoneNumber      string             `bson:"phone_number"`
	Gender           string             `bson:"gender"`
	DateOfBirth      string             `bson:"date_of_birth"`
	MembershipStatus string             `bson:"membership_status"`
	CreatedAt        time.Time          `bson:"createdAt"`
}

func NewUserDocument(user *domain.User) *UserDocument {
	return &UserDocument{
		Name:             user.Name,
		Email:            user.Email,
		Password:         user.PasswordHash,
		PhoneNumber:      user.PhoneNumber,
		Gender:           user.Gender,
		DateOfBirth:      user.DateOfBirth,
		MembershipStatus: user.MembershipStatus,
		CreatedAt:        user.CreatedAt,
	}
}

func (d *UserDocument) ToDomain() *domain.User {
	return &domain.User{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Email:            d.Email,
		PasswordHash:     d.Password,
		PhoneNumber:      d.PhoneNumber,
		Gender:           d.Gender,
		DateOfBirth:      d.DateOfBirth,
		MembershipStatus: d.MembershipStatus,
		CreatedAt:        d.CreatedAt.UTC(),
	}
}

// JobRow is a job as stored in the PostgreSQL "jobs" table
type JobRow struct {
	JobID               string    `db:"job_id"`
	Title               string    `db:"title"`
	Type                string    `db:"type"`
	Description         string    `db:"description"`
	CompanyName         string    `db:"company_name"`
	CompanyContactEmail string    `db:"company_contact_email"`
	CompanyContactPhone string    `db:"company_contact_phone"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

func NewJobRow(job *domain.Job) *JobRow {
	return &JobRow{
		JobID:               job.ID,
		Title:               job.Title,
		Type:                job.Type,
		Description:         job.Description,
		CompanyName:         job.Company.Name,
		CompanyContactEmail: job.Company.ContactEmail,
		CompanyContactPhone: job.Company.ContactPhone,
		CreatedAt:           job.CreatedAt,
		UpdatedAt:           job.UpdatedAt,
	}
}

func (r *JobRow) ToDomain() domain.Job {
	return domain.Job{
		ID:          r.JobID,
		Title:       r.Title,
		Type:        r.Type,
		Description: r.Description,
		Company: domain.Company{
			Name:         r.CompanyName,
			ContactEmail: r.CompanyContactEmail,
			ContactPhone: r.CompanyContactPhone,
		},
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// UserRow is a user as stored in the PostgreSQL "users" table
type UserRow struct {
	UserID           string    `db:"user_id"`
	Name             string    `db:"name"`
	Email            string    `db:"email"`
	PasswordHash     string    `db:"password_hash"`
	PhoneNumber      string    `db:"phone_number"`
	Gender           string    `db:"gender"`
	DateOfBirth      string    `db:"date_of_birth"`
	MembershipStatus string    `db:"membership_status"`
	CreatedAt        time.Time `db:"created_at"`
}

func NewUserRow(user *domain.User) *UserRow {
	return &UserRow{
		UserID:           user.ID,
		Name:             user.Name,
		Email:            user.Email,
		PasswordHash:     user.PasswordHash,
		PhoneNumber:      user.PhoneNumber,
		Gender:           user.Gender,
		DateOfBirth:      user.DateOfBirth,
		MembershipStatus: user.MembershipStatus,
		CreatedAt:        user.CreatedAt,
	}
}

func (r *UserRow) ToDomain() *domain.User {
	return &domain.User{
		ID:               r.UserID,
		Name:             r.Name,
		Email:            r.Email,
		PasswordHash:     r.PasswordHash,
		PhoneNumber:      r.PhoneNumber,
		Gender:           r.Gender,
		DateOfBirth:      r.DateOfBirth,
		MembershipStatus: r.MembershipStatus,
		CreatedAt:        r.CreatedAt.UTC(),
	}
}
