package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
)

// TeamStore defines the interface for team and membership persistence.
type TeamStore interface {
	// Create saves a new team. It does not create the owner's membership
	// row; the service layer does that in the same transaction via WithTx.
	Create(ctx context.Context, team *domain.Team) error

	// GetByID retrieves a team the given user is a member of.
	// Returns ErrTeamNotFound otherwise.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Team, error)

	// ListByUser retrieves all teams the user is a member of.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Team, error)

	// AddMember inserts a membership row.
	// Returns ErrMemberExists if the user is already a member.
	AddMember(ctx context.Context, member *domain.TeamMember) error

	// RemoveMember deletes a membership row.
	// Returns ErrTeamNotFound if no such membership exists.
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error

	// ListMembers retrieves a team's membership rows, oldest first.
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]*domain.TeamMember, error)

	// Delete removes a team. Only the owner may delete; membership rows
	// cascade at the database level.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// WithTx returns a TeamStore bound to the given transaction.
	WithTx(tx *sql.Tx) TeamStore
}
