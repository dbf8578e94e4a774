package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
)

// TaskFilter narrows a task listing. Nil fields are not applied. All
// listings are owner-scoped; the filter never widens access.
type TaskFilter struct {
	Status    *domain.TaskStatus
	ProjectID *uuid.UUID
	Priority  *int
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors if the task data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID, scoped to its owner.
	// Returns ErrTaskNotFound if the task does not exist or belongs to
	// another user.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error)

	// List retrieves the owner's tasks matching the filter, ordered by
	// due date ascending with undated tasks last, then creation time.
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// Update saves changes to an existing task's mutable fields.
	// Returns ErrTaskNotFound if the task does not exist for the owner.
	Update(ctx context.Context, task *domain.Task) error

	// CompleteIfPending transitions a pending task to completed in a
	// single conditional update keyed by (id, owner, status). The store
	// is the source of truth for the "not already completed" guard: two
	// racing completions resolve at the database, not in application
	// code. Returns the updated task, ErrTaskAlreadyCompleted if the
	// task exists but is not pending, or ErrTaskNotFound.
	CompleteIfPending(ctx context.Context, id, userID uuid.UUID, completedAt time.Time, actualDuration *int) (*domain.Task, error)

	// Delete removes a task owned by the given user.
	// Returns ErrTaskNotFound if no matching task exists.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
