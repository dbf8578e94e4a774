package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	ErrTaskIDEmpty     = errors.New("task ID cannot be empty")
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")
	ErrTaskTitleEmpty  = errors.New("task title cannot be empty")
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Task lifecycle states. The transition pending -> completed is terminal;
// no reopen operation exists.
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// Task represents a unit of work owned by a single user. EnergyRequirement
// and Priority are ordinal 1-5 values; Points is derived from both and is
// recomputed whenever either changes.
type Task struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	ProjectID         *uuid.UUID `json:"project_id,omitempty"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	EnergyRequirement int        `json:"energy_requirement"`
	Priority          int        `json:"priority"`
	Status            TaskStatus `json:"status"`
	Points            int        `json:"points"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	EstimatedDuration *int       `json:"estimated_duration,omitempty"` // minutes
	ActualDuration    *int       `json:"actual_duration,omitempty"`    // minutes
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewTask creates a pending Task owned by the given user. Priority and
// energy requirement are taken as-is; out-of-range values are tolerated
// here and degrade to default multipliers at scoring time. Points must be
// assigned by the caller from the scoring engine to keep the derivation
// rules in one place.
func NewTask(userID uuid.UUID, title string, priority, energyRequirement int) (*Task, error) {
	task := &Task{
		ID:                uuid.New(),
		UserID:            userID,
		Title:             title,
		EnergyRequirement: energyRequirement,
		Priority:          priority,
		Status:            TaskStatusPending,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}

	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if t.Status != TaskStatusPending && t.Status != TaskStatusCompleted {
		return ErrInvalidTaskStatus
	}

	return nil
}

// IsCompleted reports whether the task has reached its terminal state.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// MarkCompleted transitions the task to completed at the given time,
// recording the actual duration if one was reported. The transition is
// terminal for the status field.
func (t *Task) MarkCompleted(now time.Time, actualDuration *int) {
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	if actualDuration != nil {
		t.ActualDuration = actualDuration
	}
	t.UpdatedAt = now
}
