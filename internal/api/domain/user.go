package domain

import (
	"strings"
	"time"
)

// User is an account allowed to call the protected job routes.
// PasswordHash never leaves the service.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	PhoneNumber      string    `json:"phone_number"`
	Gender           string    `json:"gender"`
	DateOfBirth      string    `json:"date_of_birth"`
	MembershipStatus string    `json:"membership_status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Signup holds the fields required to create a user
type Signup struct {
	Name             string `json:"name" validate:"required,notblank"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,notblank"`
	PhoneNumber      string `json:"phone_number" validate:"required,notblank"`
	Gender           string `json:"gender" validate:"required,notblank"`
	DateOfBirth      string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	MembershipStatus string `json:"membership_status" validate:"required,notblank"`
}

// NormalizeEmail lower-cases and trims an address so uniqueness checks are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
