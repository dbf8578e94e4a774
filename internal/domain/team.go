package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Team-specific validation errors
var (
	ErrTeamIDEmpty     = errors.New("team ID cannot be empty")
	ErrTeamOwnerEmpty  = errors.New("team owner ID cannot be empty")
	ErrTeamNameEmpty   = errors.New("team name cannot be empty")
	ErrInvalidTeamRole = errors.New("invalid team role")
	ErrMemberUserEmpty = errors.New("member user ID cannot be empty")
	ErrMemberTeamEmpty = errors.New("member team ID cannot be empty")
)

// TeamRole represents a member's role within a team.
type TeamRole string

const (
	TeamRoleOwner  TeamRole = "owner"
	TeamRoleMember TeamRole = "member"
)

// Team is a named group of users. The creating user is recorded as owner
// and also gets an owner membership row.
type Team struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TeamMember links a user to a team with a role.
type TeamMember struct {
	TeamID   uuid.UUID `json:"team_id"`
	UserID   uuid.UUID `json:"user_id"`
	Role     TeamRole  `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// NewTeam creates a new Team owned by the given user.
func NewTeam(ownerID uuid.UUID, name, description string) (*Team, error) {
	team := &Team{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := team.Validate(); err != nil {
		return nil, err
	}

	return team, nil
}

// Validate checks if the Team has valid data.
func (t *Team) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTeamIDEmpty
	}

	if t.OwnerID == uuid.Nil {
		return ErrTeamOwnerEmpty
	}

	if t.Name == "" {
		return ErrTeamNameEmpty
	}

	return nil
}

// NewTeamMember creates a membership row for the given team and user.
func NewTeamMember(teamID, userID uuid.UUID, role TeamRole) (*TeamMember, error) {
	member := &TeamMember{
		TeamID:   teamID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}

	if err := member.Validate(); err != nil {
		return nil, err
	}

	return member, nil
}

// Validate checks if the TeamMember has valid data.
func (m *TeamMember) Validate() error {
	if m.TeamID == uuid.Nil {
		return ErrMemberTeamEmpty
	}

	if m.UserID == uuid.Nil {
		return ErrMemberUserEmpty
	}

	if m.Role != TeamRoleOwner && m.Role != TeamRoleMember {
		return ErrInvalidTeamRole
	}

	return nil
}
