package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/platform/logger"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// PostgresAPIKeyStore implements the store.APIKeyStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAPIKeyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAPIKeyStore creates a new PostgreSQL implementation of the
// APIKeyStore interface.
func NewPostgresAPIKeyStore(db store.DBTX, logger *slog.Logger) *PostgresAPIKeyStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAPIKeyStore{
		db:     db,
		logger: logger.With(slog.String("component", "api_key_store")),
	}
}

// Ensure PostgresAPIKeyStore implements store.APIKeyStore interface
var _ store.APIKeyStore = (*PostgresAPIKeyStore)(nil)

// Create implements store.APIKeyStore.Create
func (s *PostgresAPIKeyStore) Create(ctx context.Context, key *domain.APIKey) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := key.Validate(); err != nil {
		log.Warn("api key validation failed during create",
			slog.String("error", err.Error()),
			slog.String("key_id", key.ID.String()))
		return err
	}

	query := `
		INSERT INTO api_keys (id, user_id, name, prefix, hashed_key, last_used_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		key.ID,
		key.UserID,
		key.Name,
		key.Prefix,
		key.HashedKey,
		timeOrNil(key.LastUsedAt),
		key.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate api key prefix",
				slog.String("key_id", key.ID.String()))
			return store.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during api key creation",
				slog.String("error", err.Error()),
				slog.String("user_id", key.UserID.String()))
			return fmt.Errorf("%w: referenced user not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create api key",
			slog.String("error", err.Error()),
			slog.String("key_id", key.ID.String()))
		return err
	}

	log.Info("api key created",
		slog.String("key_id", key.ID.String()),
		slog.String("user_id", key.UserID.String()))
	return nil
}

// GetByPrefix implements store.APIKeyStore.GetByPrefix
// Returns store.ErrAPIKeyNotFound if no key has the given prefix.
func (s *PostgresAPIKeyStore) GetByPrefix(ctx context.Context, prefix string) (*domain.APIKey, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, prefix, hashed_key, last_used_at, created_at
		FROM api_keys
		WHERE prefix = $1
	`

	key, err := scanAPIKey(s.db.QueryRowContext(ctx, query, prefix))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("api key not found by prefix")
			return nil, store.ErrAPIKeyNotFound
		}
		log.Error("failed to get api key by prefix", slog.String("error", err.Error()))
		return nil, err
	}

	return key, nil
}

// ListByUser implements store.APIKeyStore.ListByUser
func (s *PostgresAPIKeyStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.APIKey, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, prefix, hashed_key, last_used_at, created_at
		FROM api_keys
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list api keys",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	keys := []*domain.APIKey{}
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			log.Error("failed to scan api key row", slog.String("error", err.Error()))
			return nil, err
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning api key rows", slog.String("error", err.Error()))
		return nil, err
	}

	return keys, nil
}

// TouchLastUsed implements store.APIKeyStore.TouchLastUsed
func (s *PostgresAPIKeyStore) TouchLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE api_keys SET last_used_at = $1 WHERE id = $2`,
		usedAt.UTC(),
		id,
	)
	if err != nil {
		log.Error("failed to touch api key",
			slog.String("error", err.Error()),
			slog.String("key_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return store.ErrAPIKeyNotFound
	}

	return nil
}

// Delete implements store.APIKeyStore.Delete
func (s *PostgresAPIKeyStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM api_keys WHERE id = $1 AND user_id = $2`,
		id,
		userID,
	)
	if err != nil {
		log.Error("failed to delete api key",
			slog.String("error", err.Error()),
			slog.String("key_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		log.Debug("api key not found for delete", slog.String("key_id", id.String()))
		return store.ErrAPIKeyNotFound
	}

	log.Info("api key deleted", slog.String("key_id", id.String()))
	return nil
}

// scanAPIKey scans one api key row.
func scanAPIKey(row rowScanner) (*domain.APIKey, error) {
	var (
		key        domain.APIKey
		lastUsedAt sql.NullTime
	)

	err := row.Scan(
		&key.ID,
		&key.UserID,
		&key.Name,
		&key.Prefix,
		&key.HashedKey,
		&lastUsedAt,
		&key.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastUsedAt.Valid {
		t := lastUsedAt.Time
		key.LastUsedAt = &t
	}

	return &key, nil
}
