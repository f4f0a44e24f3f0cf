package types

import "errors"

// Sentinel errors shared by services and handlers. Wrap them with %w and
// match with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidToken    = errors.New("invalid token")
	ErrNotFound        = errors.New("not found")
)
