package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrInvalidID is returned when an identifier is not in the store's format
	ErrInvalidID = errors.New("invalid id")

	// ErrJobNotFound is returned when a well-formed job id matches no record
	ErrJobNotFound = errors.New("job not found")

	// ErrUserNotFound is returned when a user lookup matches no record
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned on signup with an email already in use
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials is returned on login with an unknown email or wrong password
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrUnauthorized is returned when a bearer token cannot be resolved to a user
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError lists the request fields that failed validation, keyed by
// their JSON path (e.g. "company.name").
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
