package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/config"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/database"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/logging"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/routes"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/services"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run schema migration on startup")
}

func serve() error {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		return err
	}
	defer func() {
		if err := database.Close(database.DB); err != nil {
			slog.Error("database close error", "error", err)
		}
	}()

	if !skipMigrate {
		if err := database.Migrate(database.DB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout, os.Getenv("LOG_LEVEL")),
		pgLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Services
	petService := services.NewPetService(database.DB, cfg.DefaultPetName)
	authService := services.NewAuthService(database.DB, cfg, petService)
	taskService := services.NewTaskService(database.DB, petService)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
			Release:          "pengu@" + Version,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	app := NewApp(cfg, authService, routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService),
		Tasks:  handlers.NewTaskHandler(taskService),
		Pet:    handlers.NewPetHandler(petService),
		Admin:  handlers.NewAdminHandler(authService),
		Health: handlers.NewHealthHandler(database.DB),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-quit:
		slog.Info("shutting down server...")
	case err := <-listenErr:
		if err != nil {
			slog.Error("server failed to start", "error", err)
		}
	}

	close(cleanupDone)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	slog.Info("server stopped")
	return nil
}

// NewApp builds the Fiber application with the global middleware stack and
// all routes mounted.
func NewApp(cfg *config.Config, users middleware.UserChecker, h routes.Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, users, h)
	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
