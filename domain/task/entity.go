package task

import "time"

// Subtask is a checklist item embedded in its parent task.
type Subtask struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task is the to-do entity. Subtasks are persisted as a JSON document column
// and rewritten together with the row on every save.
type Task struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Title        string     `gorm:"size:250;not null" json:"title"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	Completed    bool       `gorm:"not null;default:false;index" json:"completed"`
	CompleteTime *time.Time `json:"complete_time"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Priority     string     `gorm:"size:250" json:"priority"`
	Subtasks     []Subtask  `gorm:"serializer:json;type:text" json:"subtasks"`
}

// TableName returns the table name for Task model.
func (Task) TableName() string {
	return "tasks"
}

// ToggleSubtask sets the completion flag of the subtask at index.
// The task is left untouched when index is out of range.
func (t *Task) ToggleSubtask(index int, completed bool) error {
	if index < 0 || index >= len(t.Subtasks) {
		return ErrInvalidSubtaskIndex
	}
	t.Subtasks[index].Completed = completed
	return nil
}

// MarkComplete flags the task as done.
func (t *Task) MarkComplete() {
	t.Completed = true
}
