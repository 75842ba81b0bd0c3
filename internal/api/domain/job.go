package domain

import (
	"time"
)

// Job types accepted by the API
const (
	JobTypeFullTime = "Full-Time"
	JobTypePartTime = "Part-Time"
)

// Company is embedded in every job posting
type Company struct {
	Name         string `json:"name" validate:"required,notblank"`
	ContactEmail string `json:"contactEmail" validate:"required,notblank"`
	ContactPhone string `json:"contactPhone" validate:"required,notblank"`
}

// Job is a job posting. ID and timestamps are assigned by the store.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required,notblank"`
	Type        string    `json:"type" validate:"required,oneof=Full-Time Part-Time"`
	Description string    `json:"description" validate:"required,notblank"`
	Company     Company   `json:"company"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CompanyPatch carries the company fields of a partial update
type CompanyPatch struct {
	Name         *string `json:"name,omitempty" validate:"omitnil,notblank"`
	ContactEmail *string `json:"contactEmail,omitempty" validate:"omitnil,notblank"`
	ContactPhone *string `json:"contactPhone,omitempty" validate:"omitnil,notblank"`
}

// JobPatch is a partial update. Nil fields are left untouched by the store.
type JobPatch struct {
	Title       *string       `json:"title,omitempty" validate:"omitnil,notblank"`
	Type        *string       `json:"type,omitempty" validate:"omitnil,oneof=Full-Time Part-Time"`
	Description *string       `json:"description,omitempty" validate:"omitnil,notblank"`
	Company     *CompanyPatch `json:"company,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p JobPatch) IsEmpty() bool {
	if p.Title != nil || p.Type != nil || p.Description != nil {
		return false
	}
	c := p.Company
	return c == nil || (c.Name == nil && c.ContactEmail == nil && c.ContactPhone == nil)
}

// Apply merges the patch into job in place
func (p JobPatch) Apply(job *Job) {
	if p.Title != nil {
		job.Title = *p.Title
	}
	if p.Type != nil {
		job.Type = *p.Type
	}
	if p.Description != nil {
		job.Description = *p.Description
	}
	if c := p.Company; c != nil {
		if c.Name != nil {
			job.Company.Name = *c.Name
		}
		if c.ContactEmail != nil {
			job.Company.ContactEmail = *c.ContactEmail
		}
		if c.ContactPhone != nil {
			job.Company.ContactPhone = *c.ContactPhone
		}
	}
}
