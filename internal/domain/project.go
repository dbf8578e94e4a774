package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Project-specific validation errors
var (
	ErrProjectIDEmpty     = errors.New("project ID cannot be empty")
	ErrProjectUserIDEmpty = errors.New("project user ID cannot be empty")
	ErrProjectNameEmpty   = errors.New("project name cannot be empty")
)

// Project groups a user's tasks under a shared name and color.
type Project struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProject creates a new Project owned by the given user.
func NewProject(userID uuid.UUID, name, description, color string) (*Project, error) {
	project := &Project{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Color:       color,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	return project, nil
}

// Validate checks if the Project has valid data.
func (p *Project) Validate() error {
	if p.ID == uuid.Nil {
		return ErrProjectIDEmpty
	}

	if p.UserID == uuid.Nil {
		return ErrProjectUserIDEmpty
	}

	if p.Name == "" {
		return ErrProjectNameEmpty
	}

	return nil
}
