package domain

import "errors"

// Sentinel errors for the service and transport layers. Callers wrap them
// with %w and add context; the HTTP error handler maps them to status codes.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)
