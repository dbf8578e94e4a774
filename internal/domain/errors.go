package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEnergyLevel is returned when an energy level or energy
	// requirement falls outside the 1-5 ordinal scale.
	ErrInvalidEnergyLevel = errors.New("energy level must be between 1 and 5")

	// ErrInvalidPriority is returned when a task priority falls outside
	// the 1-5 scale.
	ErrInvalidPriority = errors.New("priority must be between 1 and 5")

	// ErrInvalidTaskStatus is returned when a task status is not one of
	// the recognized lifecycle states.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
