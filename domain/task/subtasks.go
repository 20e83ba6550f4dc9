package task

import "strings"

// ParseSubtasks turns newline-separated text into subtasks, one per
// non-blank line, trimmed and not completed.
func ParseSubtasks(text string) []Subtask {
	subtasks := make([]Subtask, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		subtasks = append(subtasks, Subtask{Text: line})
	}
	return subtasks
}
