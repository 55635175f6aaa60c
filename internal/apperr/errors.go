// Package apperr defines the sentinel errors shared across query transports.
package apperr

import "errors"

var (
	// ErrNotFound indicates a path or slug that resolves to no artifact.
	// Absence is a normal, typed result, never a panic.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument indicates malformed query parameters.
	ErrInvalidArgument = errors.New("invalid argument")
)
