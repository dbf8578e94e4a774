package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskDependency-specific validation errors
var (
	ErrDependencyTaskEmpty = errors.New("dependency task ID cannot be empty")
	ErrSelfDependency      = errors.New("a task cannot depend on itself")
)

// TaskDependency records that TaskID is blocked until DependsOnID is
// completed. Both tasks must belong to the same user; the store enforces
// that with owner-scoped lookups before insertion.
type TaskDependency struct {
	ID          uuid.UUID `json:"id"`
	TaskID      uuid.UUID `json:"task_id"`
	DependsOnID uuid.UUID `json:"depends_on_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTaskDependency creates a dependency edge between two tasks.
func NewTaskDependency(taskID, dependsOnID uuid.UUID) (*TaskDependency, error) {
	dep := &TaskDependency{
		ID:          uuid.New(),
		TaskID:      taskID,
		DependsOnID: dependsOnID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := dep.Validate(); err != nil {
		return nil, err
	}

	return dep, nil
}

// Validate checks if the TaskDependency has valid data.
func (d *TaskDependency) Validate() error {
	if d.TaskID == uuid.Nil || d.DependsOnID == uuid.Nil {
		return ErrDependencyTaskEmpty
	}

	if d.TaskID == d.DependsOnID {
		return ErrSelfDependency
	}

	return nil
}
