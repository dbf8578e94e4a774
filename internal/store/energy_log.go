package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
)

// EnergyLogStore defines the interface for energy log persistence. Logs
// are immutable after creation; there is no update operation.
type EnergyLogStore interface {
	// Create saves a new energy log.
	Create(ctx context.Context, log *domain.EnergyLog) error

	// GetLatest retrieves the owner's most recent log by logged-at time.
	// Returns ErrEnergyLogNotFound if the user has no logs.
	GetLatest(ctx context.Context, userID uuid.UUID) (*domain.EnergyLog, error)

	// ListSince retrieves the owner's logs with logged_at >= since,
	// oldest first. Used for pattern derivation over a trailing window.
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.EnergyLog, error)

	// List retrieves the owner's logs newest first, paginated.
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.EnergyLog, error)

	// DeleteOlderThan removes all logs (across users) logged before the
	// cutoff, returning the number of rows removed. Used by the
	// retention sweeper.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
