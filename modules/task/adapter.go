package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	domain "github.com/vidhun05/To-Do/domain/task"
)

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
// container is the ServiceContainer from the task module received via SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// callService invokes a request-reply service and restores domain sentinels
// from the returned error.
func callService[Resp any](ctx context.Context, container mono.ServiceContainer, service string, req any, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return restoreError(service, err)
	}
	return nil
}

// restoreError maps a service error, which arrives as text, back onto the
// domain sentinel it was created from.
func restoreError(service string, err error) error {
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrTaskNotFound, domain.ErrInvalidSubtaskIndex} {
		if errors.Is(err, sentinel) || strings.Contains(msg, sentinel.Error()) {
			return fmt.Errorf("%s service call failed: %w", service, sentinel)
		}
	}
	return fmt.Errorf("%s service call failed: %w", service, err)
}

// CreateTask creates a new task via the create-task service.
// Rejected input is returned as a *domain.ValidationError.
func (a *taskAdapter) CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error) {
	var resp CreateTaskResponse
	if err := callService(ctx, a.container, "create-task", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, &domain.ValidationError{Fields: resp.Errors}
	}
	if resp.Task == nil {
		return nil, errors.New("create-task service returned no task")
	}
	return resp.Task, nil
}

// GetTask retrieves a task by ID via the get-task service.
func (a *taskAdapter) GetTask(ctx context.Context, taskID string) (*TaskResponse, error) {
	var resp TaskResponse
	if err := callService(ctx, a.container, "get-task", &GetTaskRequest{TaskID: taskID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTasks lists tasks with the given completion state via the list-tasks service.
func (a *taskAdapter) ListTasks(ctx context.Context, completed bool, sort string) (*ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := callService(ctx, a.container, "list-tasks", &ListTasksRequest{Completed: completed, Sort: sort}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTask applies a partial update via the update-task service.
func (a *taskAdapter) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := callService(ctx, a.container, "update-task", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteTask deletes a task via the delete-task service.
func (a *taskAdapter) DeleteTask(ctx context.Context, taskID string) error {
	var resp DeleteTaskResponse
	if err := callService(ctx, a.container, "delete-task", &DeleteTaskRequest{TaskID: taskID}, &resp); err != nil {
		return err
	}
	if !resp.Deleted {
		return fmt.Errorf("task not deleted: %s", taskID)
	}
	return nil
}

// CompleteTask marks a task as completed via the complete-task service.
func (a *taskAdapter) CompleteTask(ctx context.Context, taskID string) (*TaskResponse, error) {
	var resp TaskResponse
	if err := callService(ctx, a.container, "complete-task", &CompleteTaskRequest{TaskID: taskID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleSubtask sets one subtask's completion flag via the toggle-subtask service.
func (a *taskAdapter) ToggleSubtask(ctx context.Context, taskID string, index int, completed bool) (*TaskResponse, error) {
	req := ToggleSubtaskRequest{TaskID: taskID, Index: index, Completed: completed}
	var resp TaskResponse
	if err := callService(ctx, a.container, "toggle-subtask", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
