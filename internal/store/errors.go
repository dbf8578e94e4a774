package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store, or exists but does not belong to the requesting user.
	// Entity-specific variants below wrap this error.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrTaskNotFound indicates that the requested task does not exist or
	// does not belong to the caller.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrProjectNotFound indicates that the requested project does not
	// exist or does not belong to the caller.
	ErrProjectNotFound = fmt.Errorf("%w: project", ErrNotFound)

	// ErrEnergyLogNotFound indicates that no matching energy log exists.
	ErrEnergyLogNotFound = fmt.Errorf("%w: energy log", ErrNotFound)

	// ErrTeamNotFound indicates that the requested team does not exist.
	ErrTeamNotFound = fmt.Errorf("%w: team", ErrNotFound)

	// ErrDependencyNotFound indicates that the requested task dependency
	// does not exist.
	ErrDependencyNotFound = fmt.Errorf("%w: task dependency", ErrNotFound)

	// ErrAPIKeyNotFound indicates that no matching API key exists.
	ErrAPIKeyNotFound = fmt.Errorf("%w: api key", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrDependencyExists indicates that the dependency edge already exists.
	ErrDependencyExists = fmt.Errorf("%w: task dependency", ErrDuplicate)

	// ErrMemberExists indicates that the user is already a member of the team.
	ErrMemberExists = fmt.Errorf("%w: team member", ErrDuplicate)

	// ErrTaskAlreadyCompleted indicates that a completion was attempted on
	// a task that is not pending. The pending -> completed transition is
	// guarded by the store as the source of truth.
	ErrTaskAlreadyCompleted = errors.New("task already completed")
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
