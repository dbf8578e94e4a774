package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/platform/logger"
	"github.com/stringerc/syncscript-backend/internal/store"
)

const energyLogColumns = `id, user_id, energy_level, mood_tags, notes, logged_at, created_at`

// PostgresEnergyLogStore implements the store.EnergyLogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresEnergyLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEnergyLogStore creates a new PostgreSQL implementation of the
// EnergyLogStore interface.
func NewPostgresEnergyLogStore(db store.DBTX, logger *slog.Logger) *PostgresEnergyLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresEnergyLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "energy_log_store")),
	}
}

// Ensure PostgresEnergyLogStore implements store.EnergyLogStore interface
var _ store.EnergyLogStore = (*PostgresEnergyLogStore)(nil)

// Create implements store.EnergyLogStore.Create
// Mood tags are stored as a JSONB array.
func (s *PostgresEnergyLogStore) Create(ctx context.Context, entry *domain.EnergyLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("energy log validation failed during create",
			slog.String("error", err.Error()),
			slog.String("log_id", entry.ID.String()))
		return err
	}

	moodTags, err := marshalMoodTags(entry.MoodTags)
	if err != nil {
		log.Error("failed to encode mood tags",
			slog.String("error", err.Error()),
			slog.String("log_id", entry.ID.String()))
		return err
	}

	query := `
		INSERT INTO energy_logs (id, user_id, energy_level, mood_tags, notes, logged_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		entry.EnergyLevel,
		moodTags,
		entry.Notes,
		entry.LoggedAt,
		entry.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during energy log creation",
				slog.String("error", err.Error()),
				slog.String("user_id", entry.UserID.String()))
			return fmt.Errorf("%w: referenced user not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create energy log",
			slog.String("error", err.Error()),
			slog.String("log_id", entry.ID.String()))
		return err
	}

	log.Info("energy log created",
		slog.String("log_id", entry.ID.String()),
		slog.String("user_id", entry.UserID.String()),
		slog.Int("energy_level", entry.EnergyLevel))
	return nil
}

// GetLatest implements store.EnergyLogStore.GetLatest
// Returns store.ErrEnergyLogNotFound if the user has no logs.
func (s *PostgresEnergyLogStore) GetLatest(ctx context.Context, userID uuid.UUID) (*domain.EnergyLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + energyLogColumns + `
		FROM energy_logs
		WHERE user_id = $1
		ORDER BY logged_at DESC
		LIMIT 1`

	entry, err := scanEnergyLog(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no energy logs for user", slog.String("user_id", userID.String()))
			return nil, store.ErrEnergyLogNotFound
		}
		log.Error("failed to get latest energy log",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return entry, nil
}

// ListSince implements store.EnergyLogStore.ListSince
func (s *PostgresEnergyLogStore) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.EnergyLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + energyLogColumns + `
		FROM energy_logs
		WHERE user_id = $1 AND logged_at >= $2
		ORDER BY logged_at ASC`

	rows, err := s.db.QueryContext(ctx, query, userID, since.UTC())
	if err != nil {
		log.Error("failed to list energy logs since cutoff",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	return collectEnergyLogs(rows, log)
}

// List implements store.EnergyLogStore.List
func (s *PostgresEnergyLogStore) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.EnergyLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + energyLogColumns + `
		FROM energy_logs
		WHERE user_id = $1
		ORDER BY logged_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to list energy logs",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	return collectEnergyLogs(rows, log)
}

// DeleteOlderThan implements store.EnergyLogStore.DeleteOlderThan
// This is the only query in the store that crosses user boundaries; it
// serves the retention sweeper, not any request path.
func (s *PostgresEnergyLogStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM energy_logs WHERE logged_at < $1`,
		cutoff.UTC(),
	)
	if err != nil {
		log.Error("failed to delete expired energy logs",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff))
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if rowsAffected > 0 {
		log.Info("expired energy logs deleted",
			slog.Int64("count", rowsAffected),
			slog.Time("cutoff", cutoff))
	}
	return rowsAffected, nil
}

// collectEnergyLogs drains rows into a slice, surfacing scan and iteration errors.
func collectEnergyLogs(rows *sql.Rows, log *slog.Logger) ([]*domain.EnergyLog, error) {
	logs := []*domain.EnergyLog{}
	for rows.Next() {
		entry, err := scanEnergyLog(rows)
		if err != nil {
			log.Error("failed to scan energy log row", slog.String("error", err.Error()))
			return nil, err
		}
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning energy log rows", slog.String("error", err.Error()))
		return nil, err
	}

	return logs, nil
}

// scanEnergyLog scans one energy log row in energyLogColumns order.
func scanEnergyLog(row rowScanner) (*domain.EnergyLog, error) {
	var (
		entry    domain.EnergyLog
		moodTags []byte
	)

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.EnergyLevel,
		&moodTags,
		&entry.Notes,
		&entry.LoggedAt,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(moodTags) > 0 {
		if err := json.Unmarshal(moodTags, &entry.MoodTags); err != nil {
			return nil, fmt.Errorf("failed to decode mood tags: %w", err)
		}
	}

	return &entry, nil
}

// marshalMoodTags encodes tags for the JSONB column. A nil slice is stored
// as an empty array rather than SQL NULL.
func marshalMoodTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}
