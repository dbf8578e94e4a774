package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// CreateProjectInput carries the caller-supplied fields for project creation.
type CreateProjectInput struct {
	Name        string
	Description string
	Color       string
}

// UpdateProjectInput carries partial project updates.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Color       *string
}

// ProjectService orchestrates project CRUD. Ownership enforcement lives in
// the store's owner-scoped queries.
type ProjectService struct {
	projects store.ProjectStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewProjectService creates a ProjectService.
func NewProjectService(projects store.ProjectStore, log *slog.Logger) *ProjectService {
	if projects == nil {
		panic("project store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &ProjectService{
		projects: projects,
		logger:   log.With(slog.String("component", "project_service")),
		now:      time.Now,
	}
}

// Create builds and persists a new project for the user.
func (s *ProjectService) Create(ctx context.Context, userID uuid.UUID, input CreateProjectInput) (*domain.Project, error) {
	project, err := domain.NewProject(userID, input.Name, input.Description, input.Color)
	if err != nil {
		return nil, err
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// Get retrieves one of the user's projects.
func (s *ProjectService) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id, userID)
}

// List retrieves all of the user's projects.
func (s *ProjectService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	return s.projects.ListByUser(ctx, userID)
}

// Update applies a partial update to one of the user's projects.
func (s *ProjectService) Update(ctx context.Context, id, userID uuid.UUID, input UpdateProjectInput) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Color != nil {
		project.Color = *input.Color
	}
	project.UpdatedAt = s.now().UTC()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// Delete removes one of the user's projects. Tasks in the project survive
// with their project reference cleared.
func (s *ProjectService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.projects.Delete(ctx, id, userID)
}
