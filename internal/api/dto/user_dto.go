package dto

import (
	"github.com/cuongbtq/jobboard-be/internal/api/domain"
)

type SignupRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	PhoneNumber      string `json:"phone_number"`
	Gender           string `json:"gender"`
	DateOfBirth      string `json:"date_of_birth"`
	MembershipStatus string `json:"membership_status"`
}

func (r *SignupRequest) ToDomain() domain.Signup {
	return domain.Signup{
		Name:             r.Name,
		Email:            r.Email,
		Password:         r.Password,
		PhoneNumber:      r.PhoneNumber,
		Gender:           r.Gender,
		DateOfBirth:      r.DateOfBirth,
		MembershipStatus: r.MembershipStatus,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}
