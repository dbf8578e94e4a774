package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/platform/logger"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// PostgresTeamStore implements the store.TeamStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTeamStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTeamStore creates a new PostgreSQL implementation of the
// TeamStore interface.
func NewPostgresTeamStore(db store.DBTX, logger *slog.Logger) *PostgresTeamStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTeamStore{
		db:     db,
		logger: logger.With(slog.String("component", "team_store")),
	}
}

// Ensure PostgresTeamStore implements store.TeamStore interface
var _ store.TeamStore = (*PostgresTeamStore)(nil)

// WithTx implements store.TeamStore.WithTx
func (s *PostgresTeamStore) WithTx(tx *sql.Tx) store.TeamStore {
	return &PostgresTeamStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TeamStore.Create
// The owner's membership row is inserted separately by the service layer
// inside the same transaction.
func (s *PostgresTeamStore) Create(ctx context.Context, team *domain.Team) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := team.Validate(); err != nil {
		log.Warn("team validation failed during create",
			slog.String("error", err.Error()),
			slog.String("team_id", team.ID.String()))
		return err
	}

	query := `
		INSERT INTO teams (id, owner_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		team.ID,
		team.OwnerID,
		team.Name,
		team.Description,
		team.CreatedAt,
		team.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during team creation",
				slog.String("error", err.Error()),
				slog.String("owner_id", team.OwnerID.String()))
			return fmt.Errorf("%w: referenced owner not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create team",
			slog.String("error", err.Error()),
			slog.String("team_id", team.ID.String()))
		return err
	}

	log.Info("team created successfully",
		slog.String("team_id", team.ID.String()),
		slog.String("owner_id", team.OwnerID.String()))
	return nil
}

// GetByID implements store.TeamStore.GetByID
// Visibility is membership-scoped: a team is only retrievable by its members.
func (s *PostgresTeamStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Team, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT t.id, t.owner_id, t.name, t.description, t.created_at, t.updated_at
		FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE t.id = $1 AND m.user_id = $2
	`

	team := &domain.Team{}
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&team.ID,
		&team.OwnerID,
		&team.Name,
		&team.Description,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("team not found or not a member",
				slog.String("team_id", id.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrTeamNotFound
		}
		log.Error("failed to get team by ID",
			slog.String("error", err.Error()),
			slog.String("team_id", id.String()))
		return nil, err
	}

	return team, nil
}

// ListByUser implements store.TeamStore.ListByUser
func (s *PostgresTeamStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Team, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT t.id, t.owner_id, t.name, t.description, t.created_at, t.updated_at
		FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list teams",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	teams := []*domain.Team{}
	for rows.Next() {
		team := &domain.Team{}
		err := rows.Scan(
			&team.ID,
			&team.OwnerID,
			&team.Name,
			&team.Description,
			&team.CreatedAt,
			&team.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan team row", slog.String("error", err.Error()))
			return nil, err
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning team rows", slog.String("error", err.Error()))
		return nil, err
	}

	return teams, nil
}

// AddMember implements store.TeamStore.AddMember
// Returns store.ErrMemberExists if the user is already a member.
func (s *PostgresTeamStore) AddMember(ctx context.Context, member *domain.TeamMember) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := member.Validate(); err != nil {
		log.Warn("team member validation failed",
			slog.String("error", err.Error()),
			slog.String("team_id", member.TeamID.String()))
		return err
	}

	query := `
		INSERT INTO team_members (team_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		member.TeamID,
		member.UserID,
		member.Role,
		member.JoinedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("user already a member of team",
				slog.String("team_id", member.TeamID.String()),
				slog.String("user_id", member.UserID.String()))
			return store.ErrMemberExists
		}
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during member addition",
				slog.String("error", err.Error()),
				slog.String("team_id", member.TeamID.String()))
			return fmt.Errorf("%w: referenced team or user not found", store.ErrInvalidEntity)
		}

		log.Error("failed to add team member",
			slog.String("error", err.Error()),
			slog.String("team_id", member.TeamID.String()))
		return err
	}

	log.Info("team member added",
		slog.String("team_id", member.TeamID.String()),
		slog.String("user_id", member.UserID.String()),
		slog.String("role", string(member.Role)))
	return nil
}

// RemoveMember implements store.TeamStore.RemoveMember
// Returns store.ErrTeamNotFound if no such membership exists.
func (s *PostgresTeamStore) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`,
		teamID,
		userID,
	)
	if err != nil {
		log.Error("failed to remove team member",
			slog.String("error", err.Error()),
			slog.String("team_id", teamID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		log.Debug("membership not found for removal",
			slog.String("team_id", teamID.String()),
			slog.String("user_id", userID.String()))
		return store.ErrTeamNotFound
	}

	log.Info("team member removed",
		slog.String("team_id", teamID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// ListMembers implements store.TeamStore.ListMembers
func (s *PostgresTeamStore) ListMembers(ctx context.Context, teamID uuid.UUID) ([]*domain.TeamMember, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT team_id, user_id, role, joined_at
		FROM team_members
		WHERE team_id = $1
		ORDER BY joined_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, teamID)
	if err != nil {
		log.Error("failed to list team members",
			slog.String("error", err.Error()),
			slog.String("team_id", teamID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	members := []*domain.TeamMember{}
	for rows.Next() {
		member := &domain.TeamMember{}
		var role string
		err := rows.Scan(&member.TeamID, &member.UserID, &role, &member.JoinedAt)
		if err != nil {
			log.Error("failed to scan team member row", slog.String("error", err.Error()))
			return nil, err
		}
		member.Role = domain.TeamRole(role)
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning team member rows", slog.String("error", err.Error()))
		return nil, err
	}

	return members, nil
}

// Delete implements store.TeamStore.Delete
// The owner predicate enforces that only the owner may delete the team.
func (s *PostgresTeamStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM teams WHERE id = $1 AND owner_id = $2`,
		id,
		ownerID,
	)
	if err != nil {
		log.Error("failed to delete team",
			slog.String("error", err.Error()),
			slog.String("team_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		log.Debug("team not found for delete or not owner",
			slog.String("team_id", id.String()),
			slog.String("owner_id", ownerID.String()))
		return store.ErrTeamNotFound
	}

	log.Info("team deleted", slog.String("team_id", id.String()))
	return nil
}
