package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
)

// ProjectStore defines the interface for project data persistence.
type ProjectStore interface {
	// Create saves a new project.
	Create(ctx context.Context, project *domain.Project) error

	// GetByID retrieves a project by ID, scoped to its owner.
	// Returns ErrProjectNotFound if it does not exist for the owner.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Project, error)

	// ListByUser retrieves all of the owner's projects, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)

	// Update saves changes to an existing project.
	// Returns ErrProjectNotFound if it does not exist for the owner.
	Update(ctx context.Context, project *domain.Project) error

	// Delete removes a project owned by the given user. Tasks referencing
	// the project keep existing with their project reference cleared by
	// the schema's ON DELETE SET NULL constraint.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
