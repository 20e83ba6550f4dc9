// Package activity keeps an in-memory feed of recent task lifecycle events.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
	"github.com/vidhun05/To-Do/events"
)

// Module consumes task events into a bounded feed.
type Module struct {
	feed   *Feed
	logger types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
)

// NewModule creates a new activity module retaining capacity entries.
func NewModule(capacity int, logger types.Logger) *Module {
	return &Module{
		feed:   NewFeed(capacity),
		logger: logger.WithModule("activity"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to every task lifecycle event.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCompletedV1, m.handleTaskCompleted, m); err != nil {
		return fmt.Errorf("failed to register TaskCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.SubtaskToggledV1, m.handleSubtaskToggled, m); err != nil {
		return fmt.Errorf("failed to register SubtaskToggled consumer: %w", err)
	}

	m.logger.Info("registered event consumers",
		"events", []string{"TaskCreated", "TaskUpdated", "TaskCompleted", "TaskDeleted", "SubtaskToggled"})
	return nil
}

// RegisterServices registers the recent-activity service.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "recent-activity", json.Unmarshal, json.Marshal, m.recentActivity,
	); err != nil {
		return fmt.Errorf("failed to register recent-activity service: %w", err)
	}
	return nil
}

func (m *Module) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.record(TypeTaskCreated, event.TaskID, fmt.Sprintf("Task %q created", event.Title), event.CreatedAt)
	return nil
}

func (m *Module) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	msg := fmt.Sprintf("Task %q updated", event.Title)
	if len(event.Fields) > 0 {
		msg += " (" + strings.Join(event.Fields, ", ") + ")"
	}
	m.record(TypeTaskUpdated, event.TaskID, msg, event.UpdatedAt)
	return nil
}

func (m *Module) handleTaskCompleted(_ context.Context, event events.TaskCompletedEvent, _ *mono.Msg) error {
	m.record(TypeTaskCompleted, event.TaskID, fmt.Sprintf("Task %q completed", event.Title), event.CompletedAt)
	return nil
}

func (m *Module) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.record(TypeTaskDeleted, event.TaskID, "Task deleted", event.DeletedAt)
	return nil
}

func (m *Module) handleSubtaskToggled(_ context.Context, event events.SubtaskToggledEvent, _ *mono.Msg) error {
	state := "reopened"
	if event.Completed {
		state = "checked"
	}
	m.record(TypeSubtaskToggled, event.TaskID, fmt.Sprintf("Subtask %q %s", event.Text, state), event.ToggledAt)
	return nil
}

func (m *Module) record(kind, taskID, message string, at time.Time) {
	m.feed.Record(Entry{
		ID:         uuid.New().String(),
		Type:       kind,
		TaskID:     taskID,
		Message:    message,
		OccurredAt: at,
	})
	m.logger.Debug("recorded activity", "type", kind, "task_id", taskID)
}

// recentActivity handles the recent-activity service request.
func (m *Module) recentActivity(_ context.Context, req RecentActivityRequest, _ *mono.Msg) (RecentActivityResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	entries := m.feed.Recent(limit)
	return RecentActivityResponse{
		Entries: entries,
		Total:   m.feed.Len(),
		Counts:  m.feed.Counts(),
	}, nil
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("module started", "capacity", m.feed.capacity)
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("module stopped", "recorded", m.feed.Len())
	return nil
}
