package api

import (
	"context"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/vidhun05/To-Do/modules/activity"
	"github.com/vidhun05/To-Do/modules/task"
)

// HealthChecker is implemented by modules that report their own health.
type HealthChecker interface {
	Name() string
	Health(ctx context.Context) mono.HealthStatus
}

// Handlers holds the HTTP handlers and the ports they call.
type Handlers struct {
	tasks    task.TaskPort
	activity activity.ActivityPort
	checks   []HealthChecker
	logger   types.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(tasks task.TaskPort, feed activity.ActivityPort, checks []HealthChecker, logger types.Logger) *Handlers {
	return &Handlers{
		tasks:    tasks,
		activity: feed,
		checks:   checks,
		logger:   logger,
	}
}

// ListTasks handles GET /.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	showCompleted := c.Query("completed", "0") == "1"

	resp, err := h.tasks.ListTasks(c.UserContext(), showCompleted, c.Query("sort", "default"))
	if err != nil {
		return h.respondError(c, err)
	}

	views := make([]TaskView, 0, len(resp.Tasks))
	for i := range resp.Tasks {
		views = append(views, toTaskView(&resp.Tasks[i]))
	}
	return c.JSON(ListResponse{
		Tasks:         views,
		Total:         resp.Total,
		Sort:          resp.Sort,
		ShowCompleted: showCompleted,
	})
}

// CreateTask handles POST /.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var form CreateTaskForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, msgInvalidBody)
	}

	created, err := h.tasks.CreateTask(c.UserContext(), &task.CreateTaskRequest{
		Title:        form.Title,
		Description:  form.Description,
		CompleteTime: form.CompleteTime,
		Priority:     form.Priority,
		Subtasks:     form.Subtasks,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	h.logger.Info("task created", "id", created.ID)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// TaskDetails handles POST /details.
func (h *Handlers) TaskDetails(c *fiber.Ctx) error {
	var req TodoIDRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, msgInvalidBody)
	}

	t, err := h.tasks.GetTask(c.UserContext(), req.TodoID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(toTaskView(t))
}

// DeleteTask handles POST /delete.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	var req TodoIDRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, msgInvalidBody)
	}

	if err := h.tasks.DeleteTask(c.UserContext(), req.TodoID); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(SuccessResponse{Success: true})
}

// CompleteTask handles POST /complete.
func (h *Handlers) CompleteTask(c *fiber.Ctx) error {
	var req TodoIDRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, msgInvalidBody)
	}

	if _, err := h.tasks.CompleteTask(c.UserContext(), req.TodoID); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(SuccessResponse{Success: true})
}

// UpdateTask handles POST /update-task.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, msgInvalidBody)
	}

	update := &task.UpdateTaskRequest{
		TaskID:      req.TodoID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if subtasks, ok := parseSubtaskList(req.Subtasks); ok {
		update.Subtasks = subtasks
	}

	if _, err := h.tasks.UpdateTask(c.UserContext(), update); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(SuccessResponse{Success: true})
}

// UpdateSubtask handles POST /update-subtask.
func (h *Handlers) UpdateSubtask(c *fiber.Ctx) error {
	var req UpdateSubtaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, msgInvalidBody)
	}
	if req.SubtaskIndex == nil {
		return badRequest(c, msgInvalidSubtaskIndex)
	}

	if _, err := h.tasks.ToggleSubtask(c.UserContext(), req.TodoID, *req.SubtaskIndex, req.Completed); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(SuccessResponse{Success: true})
}

// RecentActivity handles GET /activity.
func (h *Handlers) RecentActivity(c *fiber.Ctx) error {
	resp, err := h.activity.RecentActivity(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}

// Health handles GET /health.
func (h *Handlers) Health(c *fiber.Ctx) error {
	resp := HealthResponse{
		Status:  "healthy",
		Modules: make(map[string]ModuleHealth, len(h.checks)+1),
	}
	resp.Modules["api"] = ModuleHealth{Healthy: true, Message: "operational"}

	for _, check := range h.checks {
		status := check.Health(c.UserContext())
		resp.Modules[check.Name()] = ModuleHealth{
			Healthy: status.Healthy,
			Message: status.Message,
			Details: status.Details,
		}
		if !status.Healthy {
			resp.Status = "unhealthy"
		}
	}

	if resp.Status != "healthy" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
