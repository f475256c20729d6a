package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health       *handlers.HealthHandler
	Analysis     *handlers.AnalysisHandler
	Dashboard    *handlers.DashboardHandler
	Subscription *handlers.SubscriptionHandler
	Webhook      *handlers.WebhookHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// Per-IP sliding window
	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimitPerMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Webhooks authenticate with a shared secret, not a user token
	webhooks := api.Group("/webhooks")
	webhooks.Post("/revenuecat", h.Webhook.HandleRevenueCat)

	protected := middleware.JWTProtected(cfg)

	content := api.Group("/content", protected)
	content.Post("/analyze", h.Analysis.Analyze)
	content.Get("/analyses", h.Analysis.History)
	content.Get("/capabilities", h.Analysis.Capabilities)

	api.Get("/dashboard", protected, h.Dashboard.Dashboard)

	analytics := api.Group("/analytics", protected)
	analytics.Get("/threats", h.Dashboard.ThreatAnalytics)
	analytics.Get("/stats", h.Dashboard.Stats)

	api.Get("/subscription", protected, h.Subscription.Current)
}
