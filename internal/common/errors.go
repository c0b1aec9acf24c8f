// Package common defines shared constants and sentinel errors used across
// the librarydesk client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Authentication errors.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already in use")

	// Validation errors.
	ErrInvalidInput = errors.New("invalid input")

	// Persistence errors. These are non-fatal: the in-memory state stays
	// authoritative and the failure is only logged.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)
