package activity

import "context"

// RecentActivityRequest asks for the newest entries in the feed.
type RecentActivityRequest struct {
	Limit int `json:"limit"`
}

// RecentActivityResponse lists entries newest first.
type RecentActivityResponse struct {
	Entries []Entry          `json:"entries"`
	Total   int              `json:"total"`
	Counts  map[string]int64 `json:"counts"`
}

// ActivityPort exposes the activity feed to other modules.
type ActivityPort interface {
	RecentActivity(ctx context.Context, limit int) (*RecentActivityResponse, error)
}

// Activity types recorded in the feed.
const (
	TypeTaskCreated    = "task_created"
	TypeTaskUpdated    = "task_updated"
	TypeTaskCompleted  = "task_completed"
	TypeTaskDeleted    = "task_deleted"
	TypeSubtaskToggled = "subtask_toggled"
)

const (
	defaultLimit = 20
	maxLimit     = 500
)
