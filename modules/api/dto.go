package api

import (
	"encoding/json"

	domain "github.com/vidhun05/To-Do/domain/task"
	"github.com/vidhun05/To-Do/modules/task"
)

// CreateTaskForm is the body of POST /, form-encoded or JSON.
type CreateTaskForm struct {
	Title        string `json:"title" form:"title"`
	Description  string `json:"description" form:"description"`
	CompleteTime string `json:"complete_time" form:"complete_time"`
	Priority     string `json:"priority" form:"priority"`
	Subtasks     string `json:"subtasks" form:"subtasks"`
}

// TodoIDRequest identifies a single task.
type TodoIDRequest struct {
	TodoID string `json:"todoid" form:"todoid"`
}

// UpdateTaskRequest is the body of POST /update-task. Absent fields are
// left unchanged. Subtasks is kept raw so that non-list values can be
// ignored instead of rejected.
type UpdateTaskRequest struct {
	TodoID      string          `json:"todo_id"`
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Priority    *string         `json:"priority"`
	Subtasks    json.RawMessage `json:"subtasks"`
	DueDate     *string         `json:"due_date"`
}

// UpdateSubtaskRequest is the body of POST /update-subtask.
type UpdateSubtaskRequest struct {
	TodoID       string `json:"todoid"`
	SubtaskIndex *int   `json:"subtask_index"`
	Completed    bool   `json:"completed"`
}

// SuccessResponse acknowledges a mutation.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is returned for failed requests.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ValidationErrorResponse lists per-field messages for rejected input.
type ValidationErrorResponse struct {
	Success bool              `json:"success"`
	Errors  map[string]string `json:"errors"`
}

// TaskView is the serialized form of a task.
type TaskView struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Completed    bool             `json:"completed"`
	CompleteTime *string          `json:"complete_time"`
	CreatedAt    *string          `json:"created_at"`
	Priority     string           `json:"priority"`
	Subtasks     []domain.Subtask `json:"subtasks"`
}

// ListResponse is the body of GET /.
type ListResponse struct {
	Tasks         []TaskView `json:"tasks"`
	Total         int        `json:"total"`
	Sort          string     `json:"sort"`
	ShowCompleted bool       `json:"show_completed"`
}

// ModuleHealth is the health of one module.
type ModuleHealth struct {
	Healthy bool           `json:"healthy"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string                  `json:"status"`
	Modules map[string]ModuleHealth `json:"modules"`
}

func toTaskView(t *task.TaskResponse) TaskView {
	created := t.CreatedAt
	subtasks := t.Subtasks
	if subtasks == nil {
		subtasks = []domain.Subtask{}
	}
	return TaskView{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Completed:    t.Completed,
		CompleteTime: domain.FormatDate(t.CompleteTime),
		CreatedAt:    domain.FormatDate(&created),
		Priority:     t.Priority,
		Subtasks:     subtasks,
	}
}

// parseSubtaskList decodes a replacement subtask list. It reports false
// when the value is absent, null or not a JSON array. Plain strings in the
// array become incomplete subtasks.
func parseSubtaskList(raw json.RawMessage) (*[]domain.Subtask, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}

	subtasks := make([]domain.Subtask, 0, len(items))
	for _, item := range items {
		var s domain.Subtask
		if err := json.Unmarshal(item, &s); err == nil {
			subtasks = append(subtasks, s)
			continue
		}
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			subtasks = append(subtasks, domain.Subtask{Text: text})
			continue
		}
		return nil, false
	}
	return &subtasks, true
}
