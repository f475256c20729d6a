package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/detection"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var (
		backend      store.Store
		pgLogHandler *logging.PGHandler
		cleanupDone  = make(chan struct{})
	)

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		mem := store.NewMemoryStore()
		if cfg.SeedDemoData {
			if err := store.SeedDemo(context.Background(), mem, time.Now().UTC()); err != nil {
				slog.Error("demo seed failed", "error", err)
				os.Exit(1)
			}
			slog.Info("demo data seeded", "user_id", store.DemoUserID.String())
		}
		backend = mem
		slog.Warn("using in-memory store; data is lost on restart")

	default:
		if err := database.Connect(cfg); err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(database.DB); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}

		// ERROR+ records also go to system_logs
		pgLogHandler = logging.NewPGHandler(database.DB)
		slog.SetDefault(slog.New(logging.NewMultiHandler(
			logging.NewJSONHandler(os.Stdout, cfg.LogLevel),
			pgLogHandler,
		)))
		logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

		backend = store.NewPostgresStore(database.DB)
	}

	// Services
	detector := detection.NewMockDetector(detection.NewRandomSource())
	analysisService := services.NewAnalysisService(detector, backend)
	dashboardService := services.NewDashboardService(backend, backend.Devices(), backend.Subscriptions())
	subscriptionService := services.NewSubscriptionService(backend.Subscriptions())

	// Handlers
	h := routes.Handlers{
		Health:       handlers.NewHealthHandler(backend, cfg.StoreDriver),
		Analysis:     handlers.NewAnalysisHandler(analysisService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Subscription: handlers.NewSubscriptionHandler(subscriptionService),
		Webhook:      handlers.NewWebhookHandler(subscriptionService, cfg.RevenueCatWebhookAuth),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

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
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(metrics.Middleware())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if cfg.StoreDriver == config.StoreDriverPostgres {
		if err := database.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only client errors carry their message
	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", middleware.RequestID(c),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
