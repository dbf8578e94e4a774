package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/platform/logger"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// taskColumns is the column list shared by every task SELECT so scans
// stay in lockstep with scanTask.
const taskColumns = `id, user_id, project_id, title, description, energy_requirement,
	priority, status, points, due_date, estimated_duration, actual_duration,
	completed_at, created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// Returns store.ErrInvalidEntity if the user or project doesn't exist
// (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, user_id, project_id, title, description,
			energy_requirement, priority, status, points, due_date,
			estimated_duration, actual_duration, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		uuidOrNil(task.ProjectID),
		task.Title,
		task.Description,
		task.EnergyRequirement,
		task.Priority,
		task.Status,
		task.Points,
		timeOrNil(task.DueDate),
		intOrNil(task.EstimatedDuration),
		intOrNil(task.ActualDuration),
		timeOrNil(task.CompletedAt),
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: referenced user or project not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return err
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()),
		slog.Int("points", task.Points))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist for the owner.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	return task, nil
}

// List implements store.TaskStore.List
// Filter fields are appended as additional conjunctions; the owner
// predicate is always present. Ordering matches the in-process ranking
// tie-breaks: due date ascending with NULLs last, then creation time.
func (s *PostgresTaskStore) List(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{userID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		query += ` AND project_id = $` + strconv.Itoa(len(args))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		query += ` AND priority = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY due_date ASC NULLS LAST, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning task rows", slog.String("error", err.Error()))
		return nil, err
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update
// Returns store.ErrTaskNotFound if the task does not exist for the owner.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		UPDATE tasks
		SET project_id = $1, title = $2, description = $3, energy_requirement = $4,
			priority = $5, status = $6, points = $7, due_date = $8,
			estimated_duration = $9, actual_duration = $10, completed_at = $11,
			updated_at = $12
		WHERE id = $13 AND user_id = $14
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		uuidOrNil(task.ProjectID),
		task.Title,
		task.Description,
		task.EnergyRequirement,
		task.Priority,
		task.Status,
		task.Points,
		timeOrNil(task.DueDate),
		intOrNil(task.EstimatedDuration),
		intOrNil(task.ActualDuration),
		timeOrNil(task.CompletedAt),
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)

	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task not found for update", slog.String("task_id", task.ID.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.Int("points", task.Points))
	return nil
}

// CompleteIfPending implements store.TaskStore.CompleteIfPending
// The pending guard lives in the WHERE clause, so two racing completions
// resolve at the database: exactly one sees a row.
func (s *PostgresTaskStore) CompleteIfPending(
	ctx context.Context,
	id, userID uuid.UUID,
	completedAt time.Time,
	actualDuration *int,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1, completed_at = $2,
			actual_duration = COALESCE($3, actual_duration),
			updated_at = $2
		WHERE id = $4 AND user_id = $5 AND status = $6
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.QueryRowContext(
		ctx,
		query,
		domain.TaskStatusCompleted,
		completedAt.UTC(),
		intOrNil(actualDuration),
		id,
		userID,
		domain.TaskStatusPending,
	))

	if err == nil {
		log.Info("task completed",
			slog.String("task_id", id.String()),
			slog.String("user_id", userID.String()))
		return task, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to complete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	// No pending row matched: distinguish a missing task from one that
	// already reached the terminal state.
	existing, getErr := s.GetByID(ctx, id, userID)
	if getErr != nil {
		return nil, getErr
	}
	if existing.IsCompleted() {
		log.Debug("completion attempted on already-completed task",
			slog.String("task_id", id.String()))
		return nil, store.ErrTaskAlreadyCompleted
	}

	return nil, store.ErrTaskNotFound
}

// Delete implements store.TaskStore.Delete
// Returns store.ErrTaskNotFound if no matching task exists.
func (s *PostgresTaskStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		id,
		userID,
	)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task not found for delete", slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask scans one task row in taskColumns order.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		projectID   uuid.NullUUID
		status      string
		dueDate     sql.NullTime
		estimated   sql.NullInt64
		actual      sql.NullInt64
		completedAt sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&projectID,
		&task.Title,
		&task.Description,
		&task.EnergyRequirement,
		&task.Priority,
		&status,
		&task.Points,
		&dueDate,
		&estimated,
		&actual,
		&completedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	if projectID.Valid {
		task.ProjectID = &projectID.UUID
	}
	if dueDate.Valid {
		t := dueDate.Time
		task.DueDate = &t
	}
	if estimated.Valid {
		v := int(estimated.Int64)
		task.EstimatedDuration = &v
	}
	if actual.Valid {
		v := int(actual.Int64)
		task.ActualDuration = &v
	}
	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}

	return &task, nil
}

// closeRows closes rows and logs any close error.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}

// uuidOrNil maps an optional UUID to a nullable driver value.
func uuidOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

// timeOrNil maps an optional time to a nullable driver value.
func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// intOrNil maps an optional int to a nullable driver value.
func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
