package task

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidhun05/To-Do/config"
	domain "github.com/vidhun05/To-Do/domain/task"
)

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)         {}
func (m *mockLogger) Info(msg string, args ...any)          {}
func (m *mockLogger) Warn(msg string, args ...any)          {}
func (m *mockLogger) Error(msg string, args ...any)         {}
func (m *mockLogger) With(args ...any) types.Logger         { return m }
func (m *mockLogger) WithError(err error) types.Logger      { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

// memoryCache is a DetailCache backed by a map.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// createTestModule starts a TaskModule on a temporary SQLite file with a
// clock that advances one minute per call.
func createTestModule(t *testing.T) *TaskModule {
	t.Helper()

	m := NewModule(DBConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "tasks.db"),
	}, &mockLogger{})

	clock := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() { _ = m.Stop(context.Background()) })
	return m
}

func mustCreate(t *testing.T, m *TaskModule, req CreateTaskRequest) TaskResponse {
	t.Helper()
	resp, err := m.createTask(context.Background(), req, nil)
	require.NoError(t, err)
	require.Empty(t, resp.Errors)
	require.NotNil(t, resp.Task)
	return *resp.Task
}

func validRequest(title, priority string) CreateTaskRequest {
	return CreateTaskRequest{
		Title:        title,
		Description:  "about " + title,
		CompleteTime: "2024-02-10",
		Priority:     priority,
	}
}

func TestCreateTask(t *testing.T) {
	m := createTestModule(t)
	ctx := context.Background()

	t.Run("subtasks from multi-line text", func(t *testing.T) {
		req := validRequest("Groceries", "medium")
		req.Subtasks = "milk\n\n  eggs  \nbread\n"
		task := mustCreate(t, m, req)

		assert.NotEmpty(t, task.ID)
		assert.False(t, task.Completed)
		assert.Equal(t, []domain.Subtask{
			{Text: "milk"},
			{Text: "eggs"},
			{Text: "bread"},
		}, task.Subtasks)
	})

	t.Run("validation errors are returned per field", func(t *testing.T) {
		resp, err := m.createTask(ctx, CreateTaskRequest{Title: "only title"}, nil)
		require.NoError(t, err)
		assert.Nil(t, resp.Task)
		assert.Equal(t, map[string]string{
			"description":   domain.RequiredMessage,
			"complete_time": domain.RequiredMessage,
		}, resp.Errors)
	})

	t.Run("unparseable due date is treated as missing", func(t *testing.T) {
		req := validRequest("Bad date", "low")
		req.CompleteTime = "10/02/2024"
		resp, err := m.createTask(ctx, req, nil)
		require.NoError(t, err)
		assert.Contains(t, resp.Errors, "complete_time")
	})
}

func TestGetTask(t *testing.T) {
	m := createTestModule(t)
	ctx := context.Background()

	created := mustCreate(t, m, validRequest("Read", "low"))

	got, err := m.getTask(ctx, GetTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Read", got.Title)

	_, err = m.getTask(ctx, GetTaskRequest{TaskID: "missing"}, nil)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestListTasks(t *testing.T) {
	m := createTestModule(t)
	ctx := context.Background()

	low := mustCreate(t, m, validRequest("zeta", "low"))
	medOld := mustCreate(t, m, validRequest("Alpha", "medium"))
	high := mustCreate(t, m, validRequest("beta", "high"))
	medNew := mustCreate(t, m, validRequest("gamma", "Medium"))

	t.Run("priority with newest first inside a rank", func(t *testing.T) {
		resp, err := m.listTasks(ctx, ListTasksRequest{Sort: "priority"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 4, resp.Total)
		assert.Equal(t, []string{high.ID, medNew.ID, medOld.ID, low.ID}, responseIDs(resp.Tasks))
	})

	t.Run("alphabetical ignores case", func(t *testing.T) {
		resp, err := m.listTasks(ctx, ListTasksRequest{Sort: "alphabetical"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{medOld.ID, high.ID, medNew.ID, low.ID}, responseIDs(resp.Tasks))
	})

	t.Run("unknown sort falls back to priority", func(t *testing.T) {
		resp, err := m.listTasks(ctx, ListTasksRequest{Sort: "whatever"}, nil)
		require.NoError(t, err)
		assert.Equal(t, string(domain.SortPriority), resp.Sort)
		assert.Equal(t, high.ID, resp.Tasks[0].ID)
	})

	t.Run("completed filter", func(t *testing.T) {
		_, err := m.completeTask(ctx, CompleteTaskRequest{TaskID: low.ID}, nil)
		require.NoError(t, err)

		done, err := m.listTasks(ctx, ListTasksRequest{Completed: true}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{low.ID}, responseIDs(done.Tasks))

		open, err := m.listTasks(ctx, ListTasksRequest{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, open.Total)
	})
}

func TestUpdateTask(t *testing.T) {
	m := createTestModule(t)
	ctx := context.Background()

	created := mustCreate(t, m, validRequest("Draft", "low"))

	title := "Final"
	priority := "high"
	bad := "not-a-date"
	updated, err := m.updateTask(ctx, UpdateTaskRequest{
		TaskID:   created.ID,
		Title:    &title,
		Priority: &priority,
		DueDate:  &bad,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "high", updated.Priority)
	assert.Equal(t, created.Description, updated.Description)
	require.NotNil(t, updated.CompleteTime)
	assert.Equal(t, "2024-02-10", updated.CompleteTime.Format(domain.DateLayout))
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	due := "2025-01-31"
	updated, err = m.updateTask(ctx, UpdateTaskRequest{TaskID: created.ID, DueDate: &due}, nil)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-31", updated.CompleteTime.Format(domain.DateLayout))

	_, err = m.updateTask(ctx, UpdateTaskRequest{TaskID: "missing", Title: &title}, nil)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDeleteTask(t *testing.T) {
	m := createTestModule(t)
	ctx := context.Background()

	created := mustCreate(t, m, validRequest("Temp", "low"))

	resp, err := m.deleteTask(ctx, DeleteTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.True(t, resp.Deleted)

	_, err = m.getTask(ctx, GetTaskRequest{TaskID: created.ID}, nil)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = m.deleteTask(ctx, DeleteTaskRequest{TaskID: created.ID}, nil)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestToggleSubtask(t *testing.T) {
	m := createTestModule(t)
	ctx := context.Background()

	req := validRequest("Checklist", "medium")
	req.Subtasks = "one\ntwo"
	created := mustCreate(t, m, req)

	toggled, err := m.toggleSubtask(ctx, ToggleSubtaskRequest{TaskID: created.ID, Index: 0, Completed: true}, nil)
	require.NoError(t, err)
	assert.True(t, toggled.Subtasks[0].Completed)

	_, err = m.toggleSubtask(ctx, ToggleSubtaskRequest{TaskID: created.ID, Index: 2, Completed: true}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidSubtaskIndex)

	got, err := m.getTask(ctx, GetTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.Subtask{{Text: "one", Completed: true}, {Text: "two"}}, got.Subtasks)
}

func TestGetTask_UsesCache(t *testing.T) {
	m := createTestModule(t)
	cache := newMemoryCache()
	m.SetCache(cache)
	ctx := context.Background()

	created := mustCreate(t, m, validRequest("Cached", "high"))

	_, err := m.getTask(ctx, GetTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.True(t, cache.has(created.ID))

	_, err = m.getTask(ctx, GetTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	title := "Changed"
	_, err = m.updateTask(ctx, UpdateTaskRequest{TaskID: created.ID, Title: &title}, nil)
	require.NoError(t, err)
	assert.False(t, cache.has(created.ID), "update must invalidate cached details")

	got, err := m.getTask(ctx, GetTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Changed", got.Title)
}

// flakyCache fails the first failDeletes Delete calls.
type flakyCache struct {
	*memoryCache
	failDeletes int
	deletes     int
}

func (c *flakyCache) Delete(ctx context.Context, key string) error {
	c.deletes++
	if c.deletes <= c.failDeletes {
		return errors.New("connection reset")
	}
	return c.memoryCache.Delete(ctx, key)
}

func TestDeleteTask_RetriesInvalidation(t *testing.T) {
	m := createTestModule(t)
	cache := &flakyCache{memoryCache: newMemoryCache(), failDeletes: invalidateAttempts - 1}
	m.SetCache(cache)
	ctx := context.Background()

	created := mustCreate(t, m, validRequest("Flaky", "low"))
	_, err := m.getTask(ctx, GetTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	require.True(t, cache.has(created.ID))

	_, err = m.deleteTask(ctx, DeleteTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, invalidateAttempts, cache.deletes)
	assert.False(t, cache.has(created.ID))

	_, err = m.getTask(ctx, GetTaskRequest{TaskID: created.ID}, nil)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestInvalidate_GivesUpAfterAttempts(t *testing.T) {
	m := createTestModule(t)
	cache := &flakyCache{memoryCache: newMemoryCache(), failDeletes: 100}
	m.SetCache(cache)

	m.invalidate(context.Background(), "any")
	assert.Equal(t, invalidateAttempts, cache.deletes)
}

func TestHealth(t *testing.T) {
	m := NewModule(DBConfig{Driver: config.DriverSQLite}, &mockLogger{})
	assert.False(t, m.Health(context.Background()).Healthy)

	m = createTestModule(t)
	status := m.Health(context.Background())
	assert.True(t, status.Healthy)
	assert.Equal(t, config.DriverSQLite, status.Details["driver"])
}

func TestRestoreError(t *testing.T) {
	err := restoreError("get-task", assert.AnError)
	assert.ErrorIs(t, err, assert.AnError)

	err = restoreError("get-task", errorString("remote: task not found"))
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	err = restoreError("toggle-subtask", errorString("remote: invalid subtask index"))
	assert.ErrorIs(t, err, domain.ErrInvalidSubtaskIndex)
}

type errorString string

func (e errorString) Error() string { return string(e) }

func responseIDs(tasks []TaskResponse) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}
	return out
}
