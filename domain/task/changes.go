package task

// Changes is a partial update. Nil fields are left as they are.
type Changes struct {
	Title       *string
	Description *string
	Priority    *string
	Subtasks    *[]Subtask
	DueDate     *string
}

// Apply copies the supplied fields onto t and returns the names of the
// fields that were written. A due date that is empty or does not parse is
// skipped without failing the rest of the update.
func (t *Task) Apply(c Changes) []string {
	var applied []string
	if c.Title != nil {
		t.Title = *c.Title
		applied = append(applied, "title")
	}
	if c.Description != nil {
		t.Description = *c.Description
		applied = append(applied, "description")
	}
	if c.Priority != nil {
		t.Priority = *c.Priority
		applied = append(applied, "priority")
	}
	if c.Subtasks != nil {
		subtasks := make([]Subtask, len(*c.Subtasks))
		copy(subtasks, *c.Subtasks)
		t.Subtasks = subtasks
		applied = append(applied, "subtasks")
	}
	if c.DueDate != nil {
		if due, ok := ParseDate(*c.DueDate); ok {
			t.CompleteTime = &due
			applied = append(applied, "due_date")
		}
	}
	return applied
}
