package task

import (
	"context"
	"time"

	domain "github.com/vidhun05/To-Do/domain/task"
)

// CreateTaskRequest carries the raw values of the new-task form.
type CreateTaskRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	CompleteTime string `json:"complete_time"`
	Priority     string `json:"priority"`
	Subtasks     string `json:"subtasks"`
}

// CreateTaskResponse holds the new task, or the per-field validation
// messages when the input was rejected.
type CreateTaskResponse struct {
	Task   *TaskResponse     `json:"task,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	TaskID string `json:"task_id"`
}

// ListTasksRequest is the request for listing tasks.
type ListTasksRequest struct {
	Completed bool   `json:"completed"`
	Sort      string `json:"sort,omitempty"`
}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
	Sort  string         `json:"sort"`
}

// UpdateTaskRequest is a partial update. Nil fields are left unchanged.
type UpdateTaskRequest struct {
	TaskID      string            `json:"task_id"`
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Priority    *string           `json:"priority,omitempty"`
	Subtasks    *[]domain.Subtask `json:"subtasks,omitempty"`
	DueDate     *string           `json:"due_date,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// CompleteTaskRequest is the request for completing a task.
type CompleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

// ToggleSubtaskRequest sets the completion flag of one subtask.
type ToggleSubtaskRequest struct {
	TaskID    string `json:"task_id"`
	Index     int    `json:"index"`
	Completed bool   `json:"completed"`
}

// TaskResponse is the response for a single task.
type TaskResponse struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Completed    bool             `json:"completed"`
	CompleteTime *time.Time       `json:"complete_time"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Priority     string           `json:"priority"`
	Subtasks     []domain.Subtask `json:"subtasks"`
}

// TaskPort defines the task operations available to other modules.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, taskID string) (*TaskResponse, error)
	ListTasks(ctx context.Context, completed bool, sort string) (*ListTasksResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, taskID string) error
	CompleteTask(ctx context.Context, taskID string) (*TaskResponse, error)
	ToggleSubtask(ctx context.Context, taskID string, index int, completed bool) (*TaskResponse, error)
}

// DetailCache is the read-through cache used for single-task lookups.
type DetailCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

func toTaskResponse(task *domain.Task) TaskResponse {
	subtasks := task.Subtasks
	if subtasks == nil {
		subtasks = []domain.Subtask{}
	}
	return TaskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Completed:    task.Completed,
		CompleteTime: task.CompleteTime,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
		Priority:     task.Priority,
		Subtasks:     subtasks,
	}
}
