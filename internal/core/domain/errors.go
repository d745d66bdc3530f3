// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Target errors
	ErrEmptyTarget = errors.New("target cannot be empty")
	ErrNoTargets   = errors.New("no targets to process")

	// Resource errors
	ErrUnknownResource = errors.New("unknown resource type")

	// Fetch errors
	ErrRetryExhausted = errors.New("retry budget exhausted")

	// Configuration errors
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrConfigLoadFailed = errors.New("failed to load configuration")

	// Output errors
	ErrWriteFailed = errors.New("failed to write output record")

	// Downstream errors
	ErrScriptNotFound = errors.New("downstream script not found")
)
