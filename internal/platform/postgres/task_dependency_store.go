package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/platform/logger"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// PostgresTaskDependencyStore implements the store.TaskDependencyStore
// interface using a PostgreSQL database as the storage backend.
type PostgresTaskDependencyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskDependencyStore creates a new PostgreSQL implementation
// of the TaskDependencyStore interface.
func NewPostgresTaskDependencyStore(db store.DBTX, logger *slog.Logger) *PostgresTaskDependencyStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskDependencyStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_dependency_store")),
	}
}

// Ensure PostgresTaskDependencyStore implements store.TaskDependencyStore interface
var _ store.TaskDependencyStore = (*PostgresTaskDependencyStore)(nil)

// Create implements store.TaskDependencyStore.Create
// Ownership of both endpoints is checked inside the INSERT itself: the
// statement only finds rows when both tasks belong to the user, so a
// zero-row insert means one of them is missing or foreign.
func (s *PostgresTaskDependencyStore) Create(ctx context.Context, dep *domain.TaskDependency, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := dep.Validate(); err != nil {
		log.Warn("dependency validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", dep.TaskID.String()))
		return err
	}

	query := `
		INSERT INTO task_dependencies (id, task_id, depends_on_id, created_at)
		SELECT $1, $2, $3, $4
		WHERE EXISTS (SELECT 1 FROM tasks WHERE id = $2 AND user_id = $5)
		  AND EXISTS (SELECT 1 FROM tasks WHERE id = $3 AND user_id = $5)
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		dep.ID,
		dep.TaskID,
		dep.DependsOnID,
		dep.CreatedAt,
		userID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("dependency edge already exists",
				slog.String("task_id", dep.TaskID.String()),
				slog.String("depends_on_id", dep.DependsOnID.String()))
			return store.ErrDependencyExists
		}

		log.Error("failed to create task dependency",
			slog.String("error", err.Error()),
			slog.String("task_id", dep.TaskID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		log.Debug("dependency endpoints not found for user",
			slog.String("task_id", dep.TaskID.String()),
			slog.String("depends_on_id", dep.DependsOnID.String()),
			slog.String("user_id", userID.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task dependency created",
		slog.String("task_id", dep.TaskID.String()),
		slog.String("depends_on_id", dep.DependsOnID.String()))
	return nil
}

// ListForTask implements store.TaskDependencyStore.ListForTask
func (s *PostgresTaskDependencyStore) ListForTask(ctx context.Context, taskID, userID uuid.UUID) ([]*domain.TaskDependency, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT d.id, d.task_id, d.depends_on_id, d.created_at
		FROM task_dependencies d
		JOIN tasks t ON t.id = d.task_id
		WHERE d.task_id = $1 AND t.user_id = $2
		ORDER BY d.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, taskID, userID)
	if err != nil {
		log.Error("failed to list task dependencies",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	deps := []*domain.TaskDependency{}
	for rows.Next() {
		dep := &domain.TaskDependency{}
		err := rows.Scan(&dep.ID, &dep.TaskID, &dep.DependsOnID, &dep.CreatedAt)
		if err != nil {
			log.Error("failed to scan dependency row", slog.String("error", err.Error()))
			return nil, err
		}
		deps = append(deps, dep)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning dependency rows", slog.String("error", err.Error()))
		return nil, err
	}

	return deps, nil
}

// Delete implements store.TaskDependencyStore.Delete
// Returns store.ErrDependencyNotFound if no matching edge exists for the owner.
func (s *PostgresTaskDependencyStore) Delete(ctx context.Context, taskID, dependsOnID, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM task_dependencies d
		USING tasks t
		WHERE d.task_id = t.id
		  AND d.task_id = $1 AND d.depends_on_id = $2 AND t.user_id = $3
	`

	result, err := s.db.ExecContext(ctx, query, taskID, dependsOnID, userID)
	if err != nil {
		log.Error("failed to delete task dependency",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		log.Debug("dependency edge not found for delete",
			slog.String("task_id", taskID.String()),
			slog.String("depends_on_id", dependsOnID.String()))
		return store.ErrDependencyNotFound
	}

	log.Info("task dependency deleted",
		slog.String("task_id", taskID.String()),
		slog.String("depends_on_id", dependsOnID.String()))
	return nil
}
