package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-search/internal/api/http"
	"github.com/spec-kit/ticket-search/internal/api/http/handlers"
	"github.com/spec-kit/ticket-search/internal/auth"
	"github.com/spec-kit/ticket-search/internal/config"
	"github.com/spec-kit/ticket-search/internal/events"
	"github.com/spec-kit/ticket-search/internal/observability"
	"github.com/spec-kit/ticket-search/internal/persistence"
	"github.com/spec-kit/ticket-search/internal/repository"
	"github.com/spec-kit/ticket-search/internal/service"
	"github.com/spec-kit/ticket-search/internal/worker"
	"github.com/spec-kit/ticket-search/internal/zendesk"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := cfg.Zendesk.Validate(); err != nil {
		logger.Fatal("invalid zendesk configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var recentRepo repository.RecentSearchRepository
	if redis != nil {
		recentRepo = repository.NewRedisRecentSearchRepository(redis.Client, cfg.History.MaxEntries)
	} else {
		recentRepo = repository.NewMemoryRecentSearchRepository(cfg.History.MaxEntries)
	}

	dispatcher := events.NewInMemoryDispatcher()
	historyService := service.NewHistoryService(recentRepo, logger)
	notificationService := service.NewNotificationService(logger)
	worker.StartEventWorkers(dispatcher, historyService, notificationService)

	client := zendesk.NewClient(cfg.Zendesk, logger)
	searchService := service.NewSearchService(service.SearchDependencies{
		Source:     client,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	var tokens *auth.TokenManager
	if cfg.Auth.JWTSecret != "" {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	} else {
		logger.Warn("AUTH_JWT_SECRET not set; API is unauthenticated")
	}

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:           logger,
		Metrics:          metrics,
		Timeout:          cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		APIPrefix:      cfg.App.APIPrefix,
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, historyService, metrics),
		Tickets:        handlers.NewTicketsHandler(searchService),
		RecentSearches: handlers.NewRecentSearchesHandler(historyService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
