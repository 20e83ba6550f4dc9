package task

import (
	"cmp"
	"slices"
	"strings"
)

// SortMode selects the ordering applied by List.
type SortMode string

// Supported sort modes.
const (
	SortPriority     SortMode = "priority"
	SortDueDate      SortMode = "due_date"
	SortCreatedDesc  SortMode = "created_desc"
	SortCreatedAsc   SortMode = "created_asc"
	SortAlphabetical SortMode = "alphabetical"
)

// ParseSortMode maps a query value onto a SortMode. Anything unrecognised,
// including "default" and the empty string, selects SortPriority.
func ParseSortMode(s string) SortMode {
	switch mode := SortMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case SortPriority, SortDueDate, SortCreatedDesc, SortCreatedAsc, SortAlphabetical:
		return mode
	default:
		return SortPriority
	}
}

// PriorityRank returns 1 for high, 2 for medium and 3 for low.
// Unknown or empty priorities rank as medium.
func PriorityRank(priority string) int {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "high":
		return 1
	case "low":
		return 3
	default:
		return 2
	}
}

// Sort orders tasks in place according to mode.
func Sort(tasks []Task, mode SortMode) {
	slices.SortStableFunc(tasks, comparator(mode))
}

func comparator(mode SortMode) func(a, b Task) int {
	switch mode {
	case SortDueDate:
		return compareDueDate
	case SortCreatedDesc:
		return func(a, b Task) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortCreatedAsc:
		return func(a, b Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortAlphabetical:
		return func(a, b Task) int {
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	default:
		return comparePriority
	}
}

// comparePriority ranks high before low, newest first within a rank.
func comparePriority(a, b Task) int {
	if c := cmp.Compare(PriorityRank(a.Priority), PriorityRank(b.Priority)); c != 0 {
		return c
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}

// compareDueDate puts the earliest due date first and tasks without one last.
func compareDueDate(a, b Task) int {
	switch {
	case a.CompleteTime == nil && b.CompleteTime == nil:
	case a.CompleteTime == nil:
		return 1
	case b.CompleteTime == nil:
		return -1
	default:
		if c := a.CompleteTime.Compare(*b.CompleteTime); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.Priority, b.Priority)
}
