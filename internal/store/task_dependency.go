package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
)

// TaskDependencyStore defines the interface for task dependency edges.
type TaskDependencyStore interface {
	// Create saves a dependency edge. Both tasks must exist and belong to
	// the given user; otherwise ErrTaskNotFound is returned. Returns
	// ErrDependencyExists for a duplicate edge.
	Create(ctx context.Context, dep *domain.TaskDependency, userID uuid.UUID) error

	// ListForTask retrieves the dependencies of a task owned by the user.
	ListForTask(ctx context.Context, taskID, userID uuid.UUID) ([]*domain.TaskDependency, error)

	// Delete removes a dependency edge on a task owned by the user.
	// Returns ErrDependencyNotFound if no matching edge exists.
	Delete(ctx context.Context, taskID, dependsOnID, userID uuid.UUID) error
}
