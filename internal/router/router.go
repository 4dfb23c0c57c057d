package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/Huudle/flow-fusion/internal/handler"
	"github.com/Huudle/flow-fusion/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Resolve *handler.ResolveHandler
	Channel *handler.ChannelHandler
	Profile *handler.ProfileHandler
	Stats   *handler.StatsHandler
	Health  *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Health and metrics (before API group, no rate limiting)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// Per-route rate limiters
	resolveLimit := middleware.NewResolveRateLimiter()
	channelLimit := middleware.NewChannelRateLimiter()
	linkLimit := middleware.NewLinkRateLimiter()
	statsLimit := middleware.NewStatsRateLimiter()

	// API routes
	api := app.Group("/api")

	// Resolution routes
	api.Get("/resolve", h.Resolve.Resolve, resolveLimit.Handler())

	// Channel routes
	api.Get("/channels/:channelId", h.Channel.GetByChannelID, channelLimit.Handler())

	// Profile routes
	api.Get("/profiles/:profileId/channels", h.Profile.ListChannels, channelLimit.Handler())
	api.Post("/profiles/:profileId/channels", h.Profile.LinkChannel, linkLimit.Handler())
	api.Delete("/profiles/:profileId/channels/:channelId", h.Profile.UnlinkChannel, linkLimit.Handler())

	// Stats routes
	api.Get("/stats", h.Stats.GetStats, statsLimit.Handler())
}
