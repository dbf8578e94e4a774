// Package service contains the application services that orchestrate
// domain logic, the scoring engine, and persistence.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/domain/energy"
	"github.com/stringerc/syncscript-backend/internal/platform/logger"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// CreateTaskInput carries the caller-supplied fields for task creation.
// Nil Priority or EnergyRequirement fall back to the engine defaults.
type CreateTaskInput struct {
	Title             string
	Description       string
	ProjectID         *uuid.UUID
	Priority          *int
	EnergyRequirement *int
	DueDate           *time.Time
	EstimatedDuration *int
}

// UpdateTaskInput carries partial updates. Nil fields are left unchanged;
// a present field overwrites, which for the pointer-typed task fields
// includes clearing them via an explicit null.
type UpdateTaskInput struct {
	Title             *string
	Description       *string
	ProjectID         *uuid.UUID
	ClearProjectID    bool
	Priority          *int
	EnergyRequirement *int
	DueDate           *time.Time
	ClearDueDate      bool
	EstimatedDuration *int
}

// CompletionResult reports the outcome of completing a task: the updated
// task plus the point accounting for the event.
type CompletionResult struct {
	Task         *domain.Task `json:"task"`
	PointsEarned int          `json:"points_earned"`
	BonusPoints  int          `json:"bonus_points"`
}

// TaskService orchestrates task lifecycle operations. Point derivation is
// delegated to the scoring engine so the multiplier rules live in exactly
// one place.
type TaskService struct {
	tasks  store.TaskStore
	engine energy.Service
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskService creates a TaskService.
func NewTaskService(tasks store.TaskStore, engine energy.Service, log *slog.Logger) *TaskService {
	if tasks == nil {
		panic("task store cannot be nil")
	}
	if engine == nil {
		panic("energy engine cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TaskService{
		tasks:  tasks,
		engine: engine,
		logger: log.With(slog.String("component", "task_service")),
		now:    time.Now,
	}
}

// Create builds a new pending task, derives its point value, and persists it.
func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	priority := energy.DefaultPriority
	if input.Priority != nil {
		priority = *input.Priority
	}
	energyReq := energy.DefaultEnergyRequirement
	if input.EnergyRequirement != nil {
		energyReq = *input.EnergyRequirement
	}

	task, err := domain.NewTask(userID, input.Title, priority, energyReq)
	if err != nil {
		return nil, err
	}

	task.Description = input.Description
	task.ProjectID = input.ProjectID
	task.EstimatedDuration = input.EstimatedDuration
	if input.DueDate != nil {
		due := input.DueDate.UTC()
		task.DueDate = &due
	}
	task.Points = s.engine.CalculateBasePoints(task.Priority, task.EnergyRequirement)

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	log.Debug("task created via service",
		slog.String("task_id", task.ID.String()),
		slog.Int("points", task.Points))
	return task, nil
}

// Get retrieves one of the user's tasks.
func (s *TaskService) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id, userID)
}

// List retrieves the user's tasks matching the filter.
func (s *TaskService) List(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	return s.tasks.List(ctx, userID, filter)
}

// Update applies a partial update. Points are recomputed whenever the
// priority or energy requirement changes, keeping the stored value
// consistent with the derivation rule.
func (s *TaskService) Update(ctx context.Context, id, userID uuid.UUID, input UpdateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ClearProjectID {
		task.ProjectID = nil
	} else if input.ProjectID != nil {
		task.ProjectID = input.ProjectID
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		due := input.DueDate.UTC()
		task.DueDate = &due
	}
	if input.EstimatedDuration != nil {
		task.EstimatedDuration = input.EstimatedDuration
	}

	recompute := false
	if input.Priority != nil && *input.Priority != task.Priority {
		task.Priority = *input.Priority
		recompute = true
	}
	if input.EnergyRequirement != nil && *input.EnergyRequirement != task.EnergyRequirement {
		task.EnergyRequirement = *input.EnergyRequirement
		recompute = true
	}
	if recompute {
		task.Points = s.engine.CalculateBasePoints(task.Priority, task.EnergyRequirement)
	}

	task.UpdatedAt = s.now().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	if recompute {
		log.Debug("task points recomputed",
			slog.String("task_id", task.ID.String()),
			slog.Int("points", task.Points))
	}
	return task, nil
}

// Complete transitions a pending task to completed and settles its points.
// The bonus applies only when the caller reports a current energy level
// exactly equal to the task's requirement. The store performs the
// pending-to-completed transition conditionally, so concurrent completions
// of the same task award points exactly once. An invalid reported level is
// rejected before the transition; the task must stay pending.
func (s *TaskService) Complete(
	ctx context.Context,
	id, userID uuid.UUID,
	currentLevel *int,
	actualDuration *int,
) (*CompletionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if currentLevel != nil && !energy.ValidLevel(*currentLevel) {
		return nil, energy.ErrInvalidEnergyLevel
	}

	task, err := s.tasks.CompleteIfPending(ctx, id, userID, s.now().UTC(), actualDuration)
	if err != nil {
		return nil, err
	}

	bonus, err := s.engine.CompletionBonus(task, currentLevel)
	if err != nil {
		return nil, err
	}

	log.Info("task completion settled",
		slog.String("task_id", task.ID.String()),
		slog.Int("points", task.Points),
		slog.Int("bonus", bonus))

	return &CompletionResult{
		Task:         task,
		PointsEarned: task.Points + bonus,
		BonusPoints:  bonus,
	}, nil
}

// Delete removes one of the user's tasks.
func (s *TaskService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.tasks.Delete(ctx, id, userID)
}

// Suggestions scores the user's pending tasks against the reported current
// energy level and returns them best-match first. The level is checked
// before the store is queried.
func (s *TaskService) Suggestions(ctx context.Context, userID uuid.UUID, currentLevel int) ([]energy.TaskMatch, error) {
	if !energy.ValidLevel(currentLevel) {
		return nil, energy.ErrInvalidEnergyLevel
	}

	pending := domain.TaskStatusPending
	tasks, err := s.tasks.List(ctx, userID, store.TaskFilter{Status: &pending})
	if err != nil {
		return nil, err
	}

	return s.engine.RankTasks(tasks, currentLevel)
}
