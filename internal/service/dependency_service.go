package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// DependencyService orchestrates task dependency edges. Both endpoints of
// an edge must be tasks owned by the acting user; the store enforces that
// inside its statements.
type DependencyService struct {
	deps   store.TaskDependencyStore
	logger *slog.Logger
}

// NewDependencyService creates a DependencyService.
func NewDependencyService(deps store.TaskDependencyStore, log *slog.Logger) *DependencyService {
	if deps == nil {
		panic("dependency store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &DependencyService{
		deps:   deps,
		logger: log.With(slog.String("component", "dependency_service")),
	}
}

// Create records that taskID is blocked until dependsOnID completes.
func (s *DependencyService) Create(ctx context.Context, userID, taskID, dependsOnID uuid.UUID) (*domain.TaskDependency, error) {
	dep, err := domain.NewTaskDependency(taskID, dependsOnID)
	if err != nil {
		return nil, err
	}

	if err := s.deps.Create(ctx, dep, userID); err != nil {
		return nil, err
	}

	return dep, nil
}

// List retrieves the dependencies of one of the user's tasks.
func (s *DependencyService) List(ctx context.Context, userID, taskID uuid.UUID) ([]*domain.TaskDependency, error) {
	return s.deps.ListForTask(ctx, taskID, userID)
}

// Delete removes a dependency edge from one of the user's tasks.
func (s *DependencyService) Delete(ctx context.Context, userID, taskID, dependsOnID uuid.UUID) error {
	return s.deps.Delete(ctx, taskID, dependsOnID, userID)
}
