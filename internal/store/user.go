package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user's HashedPassword
	// must already be populated; plaintext passwords never reach the store.
	// Returns ErrEmailExists if the email is already registered.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if no user has the given email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update saves changes to an existing user.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user. Owned tasks, projects, energy logs, and API
	// keys are removed by database-level ON DELETE CASCADE constraints.
	Delete(ctx context.Context, id uuid.UUID) error
}
