package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/google/uuid"
	domain "github.com/vidhun05/To-Do/domain/task"
	"github.com/vidhun05/To-Do/events"
)

// createTask handles the create-task service request. Validation failures
// are reported in the response rather than as an error so the field
// messages survive the trip back to the caller.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (CreateTaskResponse, error) {
	task, err := domain.NewTask(uuid.New().String(), domain.NewTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		CompleteTime: req.CompleteTime,
		Priority:     req.Priority,
		Subtasks:     req.Subtasks,
	}, m.now())
	if err != nil {
		observe("create", err)
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return CreateTaskResponse{Errors: verr.Fields}, nil
		}
		return CreateTaskResponse{}, err
	}

	err = m.repo.Create(ctx, task)
	observe("create", err)
	if err != nil {
		m.logger.Error("failed to save task", "error", err)
		return CreateTaskResponse{}, fmt.Errorf("failed to save task: %w", err)
	}
	m.logger.Info("task created", "id", task.ID, "subtasks", len(task.Subtasks))

	m.publish("TaskCreated", task.ID, func(bus mono.EventBus) error {
		return events.TaskCreatedV1.Publish(bus, events.TaskCreatedEvent{
			TaskID:    task.ID,
			Title:     task.Title,
			Priority:  task.Priority,
			Subtasks:  len(task.Subtasks),
			CreatedAt: task.CreatedAt,
		}, nil)
	})

	resp := toTaskResponse(task)
	return CreateTaskResponse{Task: &resp}, nil
}

// getTask handles the get-task service request, reading through the
// detail cache when one is configured.
func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if m.cache != nil {
		var cached TaskResponse
		found, err := m.cache.Get(ctx, req.TaskID, &cached)
		if err != nil {
			m.logger.Warn("cache lookup failed", "id", req.TaskID, "error", err)
		}
		if found {
			cacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		}
		cacheLookups.WithLabelValues("miss").Inc()
	}

	val, err, _ := m.sfGroup.Do(req.TaskID, func() (any, error) {
		return m.repo.FindByID(ctx, req.TaskID)
	})
	observe("get", err)
	if err != nil {
		return TaskResponse{}, err
	}

	resp := toTaskResponse(val.(*domain.Task))
	if m.cache != nil {
		if err := m.cache.Set(ctx, req.TaskID, resp); err != nil {
			m.logger.Warn("cache store failed", "id", req.TaskID, "error", err)
		}
	}
	return resp, nil
}

// listTasks handles the list-tasks service request.
func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	mode := domain.ParseSortMode(req.Sort)
	tasks, err := m.repo.List(ctx, req.Completed, mode)
	observe("list", err)
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
		Sort:  string(mode),
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&tasks[i]))
	}
	return resp, nil
}

// updateTask handles the update-task service request.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, applied, err := m.repo.Update(ctx, req.TaskID, domain.Changes{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Subtasks:    req.Subtasks,
		DueDate:     req.DueDate,
	})
	observe("update", err)
	if err != nil {
		return TaskResponse{}, err
	}
	m.invalidate(ctx, task.ID)
	m.logger.Info("task updated", "id", task.ID, "fields", applied)

	m.publish("TaskUpdated", task.ID, func(bus mono.EventBus) error {
		return events.TaskUpdatedV1.Publish(bus, events.TaskUpdatedEvent{
			TaskID:    task.ID,
			Title:     task.Title,
			Fields:    applied,
			UpdatedAt: task.UpdatedAt,
		}, nil)
	})

	return toTaskResponse(task), nil
}

// deleteTask handles the delete-task service request.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	err := m.repo.Delete(ctx, req.TaskID)
	observe("delete", err)
	if err != nil {
		return DeleteTaskResponse{}, err
	}
	m.invalidate(ctx, req.TaskID)
	m.logger.Info("task deleted", "id", req.TaskID)

	m.publish("TaskDeleted", req.TaskID, func(bus mono.EventBus) error {
		return events.TaskDeletedV1.Publish(bus, events.TaskDeletedEvent{
			TaskID:    req.TaskID,
			DeletedAt: m.now(),
		}, nil)
	})

	return DeleteTaskResponse{Deleted: true}, nil
}

// completeTask handles the complete-task service request.
func (m *TaskModule) completeTask(ctx context.Context, req CompleteTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.repo.MarkComplete(ctx, req.TaskID)
	observe("complete", err)
	if err != nil {
		return TaskResponse{}, err
	}
	m.invalidate(ctx, task.ID)
	m.logger.Info("task completed", "id", task.ID)

	m.publish("TaskCompleted", task.ID, func(bus mono.EventBus) error {
		return events.TaskCompletedV1.Publish(bus, events.TaskCompletedEvent{
			TaskID:      task.ID,
			Title:       task.Title,
			CompletedAt: m.now(),
		}, nil)
	})

	return toTaskResponse(task), nil
}

// toggleSubtask handles the toggle-subtask service request.
func (m *TaskModule) toggleSubtask(ctx context.Context, req ToggleSubtaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.repo.ToggleSubtask(ctx, req.TaskID, req.Index, req.Completed)
	observe("toggle_subtask", err)
	if err != nil {
		return TaskResponse{}, err
	}
	m.invalidate(ctx, task.ID)

	m.publish("SubtaskToggled", task.ID, func(bus mono.EventBus) error {
		return events.SubtaskToggledV1.Publish(bus, events.SubtaskToggledEvent{
			TaskID:    task.ID,
			Index:     req.Index,
			Text:      task.Subtasks[req.Index].Text,
			Completed: req.Completed,
			ToggledAt: m.now(),
		}, nil)
	})

	return toTaskResponse(task), nil
}

// Cache invalidation attempts and the pause between them.
const (
	invalidateAttempts   = 3
	invalidateRetryDelay = 50 * time.Millisecond
)

// invalidate drops the cached details of a task after it changed.
func (m *TaskModule) invalidate(ctx context.Context, id string) {
	if m.cache == nil {
		return
	}

	var err error
	for i := 0; i < invalidateAttempts; i++ {
		if err = m.cache.Delete(ctx, id); err == nil {
			return
		}
		if i < invalidateAttempts-1 {
			select {
			case <-ctx.Done():
				m.logger.Warn("cache invalidation abandoned", "id", id, "error", ctx.Err())
				return
			case <-time.After(invalidateRetryDelay):
			}
		}
	}
	m.logger.Warn("cache invalidation failed", "id", id, "attempts", invalidateAttempts, "error", err)
}

// publish emits an event after the change has been committed. Failures are
// logged and never fail the operation.
func (m *TaskModule) publish(event, taskID string, fn func(mono.EventBus) error) {
	if m.eventBus == nil {
		return
	}
	if err := fn(m.eventBus); err != nil {
		m.logger.Warn("failed to publish event", "event", event, "id", taskID, "error", err)
	}
}
