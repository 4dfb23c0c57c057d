package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Huudle/flow-fusion/internal/config"
	"github.com/Huudle/flow-fusion/internal/db"
	"github.com/Huudle/flow-fusion/internal/handler"
	"github.com/Huudle/flow-fusion/internal/middleware"
	"github.com/Huudle/flow-fusion/internal/repository"
	"github.com/Huudle/flow-fusion/internal/resolver"
	"github.com/Huudle/flow-fusion/internal/router"
	"github.com/Huudle/flow-fusion/internal/service"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "flow-fusion")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	cache.SetObservers(
		func() { handler.Metrics.CacheHits.Inc() },
		func() { handler.Metrics.CacheMisses.Inc() },
	)

	channelRepo := repository.NewChannelRepo(pool)
	profileRepo := repository.NewProfileRepo(pool)

	res := resolver.New(
		resolver.Config{
			FeedTimeout:    cfg.FeedTimeout,
			BrowserTimeout: cfg.BrowserTimeout,
			BrowserPath:    cfg.BrowserPath,
		},
		resolver.WithObserver(handler.ObserveResolution),
		resolver.WithLogger(middleware.Logger.With().Str("component", "resolver").Logger()),
	)

	channelSvc := service.NewChannelService(channelRepo, profileRepo, cache, res)

	feed := resolver.NewFeedFetcher(&http.Client{Timeout: cfg.FeedTimeout})
	refreshWorker := service.NewRefreshWorker(channelRepo, cache, feed, cfg.RefreshInterval)
	go refreshWorker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "FlowFusion API",
		ServerHeader: "FlowFusion",
	})

	h := &router.Handlers{
		Resolve: handler.NewResolveHandler(res),
		Channel: handler.NewChannelHandler(channelSvc),
		Profile: handler.NewProfileHandler(channelSvc),
		Stats:   handler.NewStatsHandler(channelSvc),
		Health:  handler.NewHealthHandler(pool, cache.Client()),
	}
	router.Setup(app, h, cfg.CORSOrigins)

	go func() {
		<-ctx.Done()
		refreshWorker.Stop()
		log.Println("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("FlowFusion backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
