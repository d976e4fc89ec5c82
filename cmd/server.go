package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shashank26122003/entnt-assignment/pkg/config"
	"github.com/Shashank26122003/entnt-assignment/pkg/errx"
	"github.com/Shashank26122003/entnt-assignment/pkg/logx"
	"github.com/Shashank26122003/entnt-assignment/recruitment/assessment/assessmentapi"
	"github.com/Shashank26122003/entnt-assignment/recruitment/candidate/candidateapi"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job/jobapi"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/pflag"
)

const appName = "Hiring API"

func main() {
	if err := run(); err != nil {
		logx.Fatalf("Server error: %v", err)
	}
}

func run() error {
	// 1. Flags and Config
	var envFile, seedFile, backend string
	var port int

	flagSet := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", "", "load environment from this file before reading config (default: .env if present)")
	flagSet.StringVar(&seedFile, "seed", "", "YAML fixtures applied to empty collections at startup (overrides SEED_FILE)")
	flagSet.StringVar(&backend, "backend", "", "storage backend: memory, sqlite, redis, postgres or s3 (overrides STORAGE_BACKEND)")
	flagSet.IntVar(&port, "port", 0, "HTTP port (overrides PORT)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	var envFiles []string
	if envFile != "" {
		envFiles = append(envFiles, envFile)
	}
	cfg, err := config.LoadWith(envFiles, func(c *config.Config) {
		if backend != "" {
			c.Storage.Backend = backend
		}
		if port != 0 {
			c.Port = port
		}
		if seedFile != "" {
			c.Hiring.SeedFile = seedFile
		}
	})
	if err != nil {
		return err
	}

	// 2. Initialize Logger
	if err := logx.Configure(cfg.Env); err != nil {
		return err
	}
	defer func() { _ = logx.Sync() }()
	level, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logx.SetLevel(level)
	logx.Infof("Starting %s... %s", appName, cfg)

	// 3. Initialize Dependency Container
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if cfg.Hiring.SeedFile != "" {
		if err := container.Seed(ctx, cfg.Hiring.SeedFile); err != nil {
			return fmt.Errorf("failed to seed from %s: %w", cfg.Hiring.SeedFile, err)
		}
	}

	// 4. Create Fiber App with Config
	app := newApp(container)

	// 5. Start Server with Graceful Shutdown
	serverErr := make(chan error, 1)
	go func() {
		logx.Infof("Server listening on %s", cfg.GetServerAddr())
		serverErr <- app.Listen(cfg.GetServerAddr())
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logx.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Storage.Timeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("Server exited")
	return nil
}

func newApp(container *Container) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: !container.Config.IsDevelopment(),
		ErrorHandler:          globalErrorHandler,
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: container.Config.CORS.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Landing and Health Check
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": appName,
			"routes":  []string{"/jobs", "/candidates", "/assesments"},
			"counts": fiber.Map{
				"jobs":        len(container.JobService.List()),
				"candidates":  len(container.CandidateService.List(c.UserContext())),
				"assessments": len(container.AssessmentService.List()),
			},
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), container.Config.Storage.Timeout)
		defer cancel()
		storageOK := container.Storage.Ping(ctx) == nil

		status := fiber.StatusOK
		if !storageOK {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":  map[bool]string{true: "ok", false: "degraded"}[storageOK],
			"backend": container.Config.Storage.Backend,
			"storage": storageOK,
		})
	})

	// Recruitment Routes
	jobapi.RegisterRoutes(app, container.JobHandlers)
	candidateapi.RegisterRoutes(app, container.CandidateHandlers)
	assessmentapi.RegisterRoutes(app, container.AssessmentHandlers)

	return app
}

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	// If it's a Fiber error (e.g., 404 handler not found)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
			"code":  fe.Code,
		})
	}

	// If it's our custom errx.Error
	var appErr *errx.Error
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus >= fiber.StatusInternalServerError {
			logx.With("method", c.Method(), "path", c.Path(), "code", appErr.Code).Error(appErr)
		}
		return c.Status(appErr.HTTPStatus).JSON(appErr.ToHTTPResponse())
	}

	// Default unknown error
	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
