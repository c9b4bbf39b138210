package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist or is
	// not owned by the calling account. Adapters map it consistently to 404.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict signals a unique-constraint violation, typically on an
	// association insert that already exists.
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput is surfaced to callers as a bad-request signal.
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)
