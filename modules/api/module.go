package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vidhun05/To-Do/modules/activity"
	"github.com/vidhun05/To-Do/modules/task"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
	// RequestLog enables the per-request access log.
	RequestLog bool
}

// APIModule serves the task routes over HTTP. It reaches the task and
// activity modules only through their ports.
type APIModule struct {
	cfg          Config
	app          *fiber.App
	taskPort     task.TaskPort
	activityPort activity.ActivityPort
	checks       []HealthChecker
	logger       types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule. checks are reported by GET /health.
func NewModule(cfg Config, logger types.Logger, checks ...HealthChecker) *APIModule {
	return &APIModule{
		cfg:    cfg,
		checks: checks,
		logger: logger.WithModule("api"),
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"task", "activity"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "task":
		m.taskPort = task.NewTaskAdapter(container)
	case "activity":
		m.activityPort = activity.NewActivityAdapter(container)
	}
}

// Start builds the Fiber app and starts listening.
func (m *APIModule) Start(_ context.Context) error {
	if m.taskPort == nil || m.activityPort == nil {
		return errPortsNotSet
	}

	handlers := NewHandlers(m.taskPort, m.activityPort, m.checks, m.logger)
	m.app = newApp(handlers, m.cfg)

	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(m.cfg.Addr); err != nil {
			errCh <- err
		}
	}()

	// Catch immediate startup errors such as the port being in use.
	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("HTTP server started", "addr", m.cfg.Addr)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	if err := m.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	m.logger.Info("HTTP server stopped")
	return nil
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.cfg.Addr,
		},
	}
}

// newApp creates the Fiber app with middleware and routes.
func newApp(h *Handlers, cfg Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "To-Do",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	if cfg.RequestLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
		}))
	}
	if len(cfg.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(cfg.AllowedOrigins, ","),
			AllowMethods: "GET,POST,OPTIONS",
			AllowHeaders: "Content-Type",
		}))
	}
	app.Use(countRequests)

	registerRoutes(app, h)
	return app
}

func registerRoutes(app *fiber.App, h *Handlers) {
	app.Get("/", h.ListTasks)
	app.Post("/", h.CreateTask)
	app.Post("/details", h.TaskDetails)
	app.Post("/delete", h.DeleteTask)
	app.Post("/complete", h.CompleteTask)
	app.Post("/update-task", h.UpdateTask)
	app.Post("/update-subtask", h.UpdateSubtask)

	app.Get("/activity", h.RecentActivity)
	app.Get("/health", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
