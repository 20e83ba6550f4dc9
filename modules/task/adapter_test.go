package task

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-monolith/mono"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidhun05/To-Do/config"
	domain "github.com/vidhun05/To-Do/domain/task"
)

// clientModule depends on the task module and exposes its adapter.
type clientModule struct {
	tasks TaskPort
}

var _ mono.DependentModule = (*clientModule)(nil)

func (m *clientModule) Name() string                  { return "client" }
func (m *clientModule) Dependencies() []string        { return []string{"task"} }
func (m *clientModule) Start(_ context.Context) error { return nil }
func (m *clientModule) Stop(_ context.Context) error  { return nil }

func (m *clientModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "task" {
		m.tasks = NewTaskAdapter(container)
	}
}

// createTestApp runs the task module inside a mono application and returns
// an adapter that reaches it over the service container.
func createTestApp(t *testing.T) TaskPort {
	t.Helper()

	app, err := mono.NewMonoApplication(
		mono.WithLogLevel(mono.LogLevelError),
	)
	require.NoError(t, err)

	taskModule := NewModule(DBConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "tasks.db"),
	}, &mockLogger{})
	client := &clientModule{}

	require.NoError(t, app.Register(taskModule))
	require.NoError(t, app.Register(client))
	require.NoError(t, app.Start(context.Background()))
	t.Cleanup(func() {
		_ = app.Stop(context.Background())
	})

	require.NotNil(t, client.tasks)
	return client.tasks
}

func TestAdapter_RoundTrip(t *testing.T) {
	tasks := createTestApp(t)
	ctx := context.Background()

	created, err := tasks.CreateTask(ctx, &CreateTaskRequest{
		Title:        "Pay rent",
		Description:  "before the 5th",
		CompleteTime: "2024-01-02",
		Priority:     "high",
		Subtasks:     "transfer\nconfirm",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := tasks.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", got.Title)
	assert.Equal(t, []domain.Subtask{{Text: "transfer"}, {Text: "confirm"}}, got.Subtasks)

	list, err := tasks.ListTasks(ctx, false, "alphabetical")
	require.NoError(t, err)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, created.ID, list.Tasks[0].ID)

	t.Run("bad due date is ignored", func(t *testing.T) {
		title := "Pay rent now"
		badDate := "not-a-date"
		updated, err := tasks.UpdateTask(ctx, &UpdateTaskRequest{TaskID: created.ID, Title: &title, DueDate: &badDate})
		require.NoError(t, err)
		assert.Equal(t, "Pay rent now", updated.Title)
		require.NotNil(t, updated.CompleteTime)
		assert.True(t, created.CompleteTime.Equal(*updated.CompleteTime))
	})

	t.Run("toggle and complete", func(t *testing.T) {
		toggled, err := tasks.ToggleSubtask(ctx, created.ID, 1, true)
		require.NoError(t, err)
		assert.True(t, toggled.Subtasks[1].Completed)

		completed, err := tasks.CompleteTask(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, completed.Completed)
	})

	t.Run("delete then details", func(t *testing.T) {
		require.NoError(t, tasks.DeleteTask(ctx, created.ID))

		_, err := tasks.GetTask(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)

		err = tasks.DeleteTask(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}

func TestAdapter_Errors(t *testing.T) {
	tasks := createTestApp(t)
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		_, err := tasks.CreateTask(ctx, &CreateTaskRequest{Description: "no title"})
		require.ErrorIs(t, err, domain.ErrValidation)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, domain.RequiredMessage, verr.Fields["title"])
		assert.Equal(t, domain.RequiredMessage, verr.Fields["complete_time"])
		assert.NotContains(t, verr.Fields, "description")
	})

	t.Run("not found", func(t *testing.T) {
		_, err := tasks.GetTask(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)

		_, err = tasks.CompleteTask(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)

		_, err = tasks.ToggleSubtask(ctx, "missing", -1, true)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("subtask index out of range", func(t *testing.T) {
		created, err := tasks.CreateTask(ctx, &CreateTaskRequest{
			Title:        "Checklist",
			Description:  "two steps",
			CompleteTime: "2024-03-01",
			Subtasks:     "one\ntwo",
		})
		require.NoError(t, err)

		for _, index := range []int{2, -1} {
			_, err = tasks.ToggleSubtask(ctx, created.ID, index, true)
			assert.ErrorIs(t, err, domain.ErrInvalidSubtaskIndex, "index %d", index)
		}

		got, err := tasks.GetTask(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.Subtask{{Text: "one"}, {Text: "two"}}, got.Subtasks)
	})
}
