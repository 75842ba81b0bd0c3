package dto

import (
	"github.com/cuongbtq/jobboard-be/internal/api/domain"
)

type CompanyRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
}

// CreateJobRequest is the POST /api/jobs body. Field rules are enforced by
// the domain validator so every missing field is reported at once.
type CreateJobRequest struct {
	Title       string         `json:"title"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Company     CompanyRequest `json:"company"`
}

func (r *CreateJobRequest) ToDomain() domain.Job {
	return domain.Job{
		Title:       r.Title,
		Type:        r.Type,
		Description: r.Description,
		Company: domain.Company{
			Name:         r.Company.Name,
			ContactEmail: r.Company.ContactEmail,
			ContactPhone: r.Company.ContactPhone,
		},
	}
}

// UpdateJobRequest is the PUT /api/jobs/:id body. Absent fields stay nil.
type UpdateJobRequest struct {
	Title       *string               `json:"title"`
	Type        *string               `json:"type"`
	Description *string               `json:"description"`
	Company     *UpdateCompanyRequest `json:"company"`
}

type UpdateCompanyRequest struct {
	Name         *string `json:"name"`
	ContactEmail *string `json:"contactEmail"`
	ContactPhone *string `json:"contactPhone"`
}

func (r *UpdateJobRequest) ToPatch() domain.JobPatch {
	patch := domain.JobPatch{
		Title:       r.Title,
		Type:        r.Type,
		Description: r.Description,
	}
	if r.Company != nil {
		patch.Company = &domain.CompanyPatch{
			Name:         r.Company.Name,
			ContactEmail: r.Company.ContactEmail,
			ContactPhone: r.Company.ContactPhone,
		}
	}
	return patch
}

type ListJobsRequest struct {
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Cursor   string `form:"cursor"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
