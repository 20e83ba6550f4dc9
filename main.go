package main

import (
	"context"
	"log"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/vidhun05/To-Do/config"
	"github.com/vidhun05/To-Do/modules/activity"
	"github.com/vidhun05/To-Do/modules/api"
	"github.com/vidhun05/To-Do/modules/cache"
	"github.com/vidhun05/To-Do/modules/task"
)

func main() {
	log.Println("=== To-Do - task tracker ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel := mono.LogLevelInfo
	if cfg.ErrorsOnly() {
		logLevel = mono.LogLevelError
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()

	taskModule := task.NewModule(task.DBConfig{
		Driver: cfg.DBDriver,
		DSN:    cfg.DBURI,
		Debug:  cfg.DBDebug,
	}, logger)
	activityModule := activity.NewModule(cfg.ActivityCapacity, logger)
	checks := []api.HealthChecker{taskModule}

	// Order: independent modules first, then modules with dependencies
	if cfg.CacheEnabled() {
		cacheModule := cache.NewModule(cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.CachePrefix,
			TTL:      cfg.CacheTTL,
		}, logger)
		app.Register(cacheModule)
		taskModule.SetCache(cacheModule.Cache())
		checks = append(checks, cacheModule)
	}
	app.Register(activityModule)
	app.Register(taskModule)
	app.Register(api.NewModule(api.Config{
		Addr:           cfg.HTTPAddr,
		AllowedOrigins: cfg.AllowedOrigins(),
		RequestLog:     !cfg.ErrorsOnly(),
	}, logger, checks...))

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg *config.Config) {
	cacheState := "disabled"
	if cfg.CacheEnabled() {
		cacheState = "redis at " + cfg.RedisAddr
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("  - Database: %s (%s)", cfg.DBDriver, cfg.DBURI)
	log.Printf("  - Cache: %s", cacheState)
	log.Println("")
	log.Printf("HTTP Endpoints (%s):", cfg.HTTPAddr)
	log.Println("  GET    /                - List tasks (?sort=..., ?completed=1)")
	log.Println("  POST   /                - Create task")
	log.Println("  POST   /details         - Task details")
	log.Println("  POST   /delete          - Delete task")
	log.Println("  POST   /complete        - Mark task complete")
	log.Println("  POST   /update-task     - Update task fields")
	log.Println("  POST   /update-subtask  - Toggle a subtask")
	log.Println("  GET    /activity        - Recent activity")
	log.Println("  GET    /health          - Health check")
	log.Println("  GET    /metrics         - Prometheus metrics")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
