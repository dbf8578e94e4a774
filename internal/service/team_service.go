package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/platform/logger"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// CreateTeamInput carries the caller-supplied fields for team creation.
type CreateTeamInput struct {
	Name        string
	Description string
}

// TeamService orchestrates team lifecycle and membership. Team creation is
// transactional: the team row and the owner's membership row commit
// together or not at all.
type TeamService struct {
	db     *sql.DB
	teams  store.TeamStore
	logger *slog.Logger
}

// NewTeamService creates a TeamService.
func NewTeamService(db *sql.DB, teams store.TeamStore, log *slog.Logger) *TeamService {
	if db == nil {
		panic("db cannot be nil")
	}
	if teams == nil {
		panic("team store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TeamService{
		db:     db,
		teams:  teams,
		logger: log.With(slog.String("component", "team_service")),
	}
}

// Create builds a new team and the creator's owner membership in one
// transaction.
func (s *TeamService) Create(ctx context.Context, ownerID uuid.UUID, input CreateTeamInput) (*domain.Team, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	team, err := domain.NewTeam(ownerID, input.Name, input.Description)
	if err != nil {
		return nil, err
	}

	member, err := domain.NewTeamMember(team.ID, ownerID, domain.TeamRoleOwner)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.teams.WithTx(tx)
		if err := txStore.Create(ctx, team); err != nil {
			return err
		}
		return txStore.AddMember(ctx, member)
	})
	if err != nil {
		return nil, err
	}

	log.Info("team created with owner membership",
		slog.String("team_id", team.ID.String()),
		slog.String("owner_id", ownerID.String()))
	return team, nil
}

// Get retrieves a team the user is a member of.
func (s *TeamService) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Team, error) {
	return s.teams.GetByID(ctx, id, userID)
}

// List retrieves all teams the user is a member of.
func (s *TeamService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Team, error) {
	return s.teams.ListByUser(ctx, userID)
}

// AddMember adds a user to a team. Only the team owner may add members.
func (s *TeamService) AddMember(ctx context.Context, teamID, actorID, newMemberID uuid.UUID) (*domain.TeamMember, error) {
	team, err := s.teams.GetByID(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}
	if team.OwnerID != actorID {
		return nil, domain.ErrUnauthorized
	}

	member, err := domain.NewTeamMember(teamID, newMemberID, domain.TeamRoleMember)
	if err != nil {
		return nil, err
	}

	if err := s.teams.AddMember(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// RemoveMember removes a user from a team. The owner may remove anyone but
// themselves; a member may only remove themselves (leave).
func (s *TeamService) RemoveMember(ctx context.Context, teamID, actorID, memberID uuid.UUID) error {
	team, err := s.teams.GetByID(ctx, teamID, actorID)
	if err != nil {
		return err
	}

	if memberID == team.OwnerID {
		return domain.ErrUnauthorized
	}
	if actorID != team.OwnerID && actorID != memberID {
		return domain.ErrUnauthorized
	}

	return s.teams.RemoveMember(ctx, teamID, memberID)
}

// ListMembers retrieves a team's members; the caller must be a member.
func (s *TeamService) ListMembers(ctx context.Context, teamID, actorID uuid.UUID) ([]*domain.TeamMember, error) {
	if _, err := s.teams.GetByID(ctx, teamID, actorID); err != nil {
		return nil, err
	}
	return s.teams.ListMembers(ctx, teamID)
}

// Delete removes a team. Only the owner may delete it.
func (s *TeamService) Delete(ctx context.Context, teamID, actorID uuid.UUID) error {
	return s.teams.Delete(ctx, teamID, actorID)
}
