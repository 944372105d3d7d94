// Package common defines shared constants and sentinel errors used across
// the layers of the account vault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors.
	ErrorValidation    = errors.New("validation error")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorUserLimit     = errors.New("maximum user limit reached")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// File attachment errors.
	ErrorFileTooLarge    = errors.New("file too large")
	ErrorUnsupportedType = errors.New("unsupported file type")
	ErrorNoAttachment    = errors.New("no attached file")
)
