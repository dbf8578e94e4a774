package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/domain/energy"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// fakeTaskStore is an in-memory store.TaskStore for service tests.
type fakeTaskStore struct {
	tasks     map[uuid.UUID]*domain.Task
	listCalls int
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (f *fakeTaskStore) Create(_ context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskStore) GetByID(_ context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskStore) List(_ context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	f.listCalls++
	out := []*domain.Task{}
	for _, task := range f.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		copied := *task
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeTaskStore) Update(_ context.Context, task *domain.Task) error {
	existing, ok := f.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskStore) CompleteIfPending(
	_ context.Context,
	id, userID uuid.UUID,
	completedAt time.Time,
	actualDuration *int,
) (*domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	if task.Status != domain.TaskStatusPending {
		return nil, store.ErrTaskAlreadyCompleted
	}
	task.MarkCompleted(completedAt, actualDuration)
	copied := *task
	return &copied, nil
}

func (f *fakeTaskStore) Delete(_ context.Context, id, userID uuid.UUID) error {
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return store.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskStore) WithTx(*sql.Tx) store.TaskStore { return f }

func newTaskService(t *testing.T) (*TaskService, *fakeTaskStore) {
	t.Helper()
	fake := newFakeTaskStore()
	return NewTaskService(fake, energy.NewDefaultService(), nil), fake
}

func TestTaskService_Create_DefaultsAndPoints(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)
	userID := uuid.New()

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "write report"})
	require.NoError(t, err)

	assert.Equal(t, 3, task.Priority)
	assert.Equal(t, 3, task.EnergyRequirement)
	assert.Equal(t, 40, task.Points) // 40 x 1.0
	assert.Equal(t, domain.TaskStatusPending, task.Status)
}

func TestTaskService_Create_ExplicitValues(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)
	priority, energyReq := 5, 2

	task, err := svc.Create(context.Background(), uuid.New(), CreateTaskInput{
		Title:             "deep work block",
		Priority:          &priority,
		EnergyRequirement: &energyReq,
	})
	require.NoError(t, err)

	assert.Equal(t, 113, task.Points) // round(150 x 0.75)
}

func TestTaskService_Create_EmptyTitle(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)

	_, err := svc.Create(context.Background(), uuid.New(), CreateTaskInput{})
	assert.ErrorIs(t, err, domain.ErrTaskTitleEmpty)
}

func TestTaskService_Update_RecomputesPoints(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)
	userID := uuid.New()

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "t"})
	require.NoError(t, err)
	require.Equal(t, 40, task.Points)

	newPriority := 5
	updated, err := svc.Update(context.Background(), task.ID, userID, UpdateTaskInput{
		Priority: &newPriority,
	})
	require.NoError(t, err)
	assert.Equal(t, 150, updated.Points) // round(150 x 1.0)
}

func TestTaskService_Update_TitleOnlyKeepsPoints(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)
	userID := uuid.New()

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "t"})
	require.NoError(t, err)

	title := "renamed"
	updated, err := svc.Update(context.Background(), task.ID, userID, UpdateTaskInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, task.Points, updated.Points)
}

func TestTaskService_Update_ClearDueDate(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)
	userID := uuid.New()
	due := time.Now().Add(48 * time.Hour)

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "t", DueDate: &due})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)

	updated, err := svc.Update(context.Background(), task.ID, userID, UpdateTaskInput{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestTaskService_Complete_BonusOnExactMatch(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)
	userID := uuid.New()
	priority, energyReq := 4, 4

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{
		Title:             "t",
		Priority:          &priority,
		EnergyRequirement: &energyReq,
	})
	require.NoError(t, err)
	require.Equal(t, 100, task.Points) // round(80 x 1.25)

	level := 4
	result, err := svc.Complete(context.Background(), task.ID, userID, &level, nil)
	require.NoError(t, err)

	assert.Equal(t, 25, result.BonusPoints)
	assert.Equal(t, 125, result.PointsEarned)
	assert.True(t, result.Task.IsCompleted())
	assert.NotNil(t, result.Task.CompletedAt)
}

func TestTaskService_Complete_NoLevelNoBonus(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)
	userID := uuid.New()

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "t"})
	require.NoError(t, err)

	result, err := svc.Complete(context.Background(), task.ID, userID, nil, nil)
	require.NoError(t, err)

	assert.Zero(t, result.BonusPoints)
	assert.Equal(t, task.Points, result.PointsEarned)
}

func TestTaskService_Complete_AlreadyCompleted(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)
	userID := uuid.New()

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "t"})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), task.ID, userID, nil, nil)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), task.ID, userID, nil, nil)
	assert.ErrorIs(t, err, store.ErrTaskAlreadyCompleted)
}

func TestTaskService_Complete_InvalidLevelLeavesPending(t *testing.T) {
	t.Parallel()

	svc, fake := newTaskService(t)
	userID := uuid.New()

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "t"})
	require.NoError(t, err)

	for _, level := range []int{0, 7} {
		bad := level
		_, err = svc.Complete(context.Background(), task.ID, userID, &bad, nil)
		require.ErrorIs(t, err, energy.ErrInvalidEnergyLevel)
	}

	stored, err := fake.GetByID(context.Background(), task.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, stored.Status)
	assert.Nil(t, stored.CompletedAt)
}

func TestTaskService_Complete_RecordsActualDuration(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)
	userID := uuid.New()

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "t"})
	require.NoError(t, err)

	duration := 45
	result, err := svc.Complete(context.Background(), task.ID, userID, nil, &duration)
	require.NoError(t, err)

	require.NotNil(t, result.Task.ActualDuration)
	assert.Equal(t, 45, *result.Task.ActualDuration)
}

func TestTaskService_Suggestions_OnlyPendingRanked(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)
	userID := uuid.New()

	matchReq := 3
	matching, err := svc.Create(context.Background(), userID, CreateTaskInput{
		Title:             "matching",
		EnergyRequirement: &matchReq,
	})
	require.NoError(t, err)

	farReq := 1
	_, err = svc.Create(context.Background(), userID, CreateTaskInput{
		Title:             "far off",
		EnergyRequirement: &farReq,
	})
	require.NoError(t, err)

	done, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "done"})
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), done.ID, userID, nil, nil)
	require.NoError(t, err)

	matches, err := svc.Suggestions(context.Background(), userID, 3)
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, matching.ID, matches[0].Task.ID)
	assert.True(t, matches[0].Match)
	assert.Equal(t, 1.0, matches[0].MatchScore)
}

func TestTaskService_Suggestions_InvalidLevel(t *testing.T) {
	t.Parallel()

	svc, fake := newTaskService(t)

	_, err := svc.Suggestions(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, energy.ErrInvalidEnergyLevel)
	assert.Zero(t, fake.listCalls)
}

func TestTaskService_OwnerScoping(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)
	owner := uuid.New()
	stranger := uuid.New()

	task, err := svc.Create(context.Background(), owner, CreateTaskInput{Title: "private"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), task.ID, stranger)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	err = svc.Delete(context.Background(), task.ID, stranger)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}
