package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
)

// APIKeyStore defines the interface for device API key persistence.
type APIKeyStore interface {
	// Create saves a new API key record.
	Create(ctx context.Context, key *domain.APIKey) error

	// GetByPrefix retrieves a key by its public prefix for verification.
	// Returns ErrAPIKeyNotFound if no key has the prefix.
	GetByPrefix(ctx context.Context, prefix string) (*domain.APIKey, error)

	// ListByUser retrieves the owner's keys, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.APIKey, error)

	// TouchLastUsed records a successful use of the key.
	TouchLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error

	// Delete removes a key owned by the given user.
	// Returns ErrAPIKeyNotFound if no matching key exists.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
