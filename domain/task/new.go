package task

import (
	"strings"
	"time"
)

// DateLayout is the accepted input format for due dates.
const DateLayout = "2006-01-02"

// DisplayLayout is the format used when rendering dates in task details.
const DisplayLayout = "02 January 2006"

// NewTaskInput carries the raw form values for a new task.
type NewTaskInput struct {
	Title        string
	Description  string
	CompleteTime string
	Priority     string
	Subtasks     string
}

// NewTask validates input and builds a task with the given id and creation
// time. Title, description and a parseable due date are required.
func NewTask(id string, input NewTaskInput, now time.Time) (*Task, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = RequiredMessage
	}
	if strings.TrimSpace(input.Description) == "" {
		fields["description"] = RequiredMessage
	}
	due, ok := ParseDate(input.CompleteTime)
	if !ok {
		fields["complete_time"] = RequiredMessage
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	return &Task{
		ID:           id,
		Title:        input.Title,
		Description:  input.Description,
		CompleteTime: &due,
		CreatedAt:    now,
		Priority:     input.Priority,
		Subtasks:     ParseSubtasks(input.Subtasks),
	}, nil
}

// ParseDate parses a YYYY-MM-DD date. Empty or malformed input reports false.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t for display, or nil when t is unset.
func FormatDate(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.Format(DisplayLayout)
	return &s
}
