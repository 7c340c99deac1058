package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/sharek-engine/internal/api/http"
	"github.com/spec-kit/sharek-engine/internal/api/http/handlers"
	"github.com/spec-kit/sharek-engine/internal/auth"
	"github.com/spec-kit/sharek-engine/internal/config"
	"github.com/spec-kit/sharek-engine/internal/events"
	"github.com/spec-kit/sharek-engine/internal/moderation"
	"github.com/spec-kit/sharek-engine/internal/observability"
	"github.com/spec-kit/sharek-engine/internal/persistence"
	"github.com/spec-kit/sharek-engine/internal/repository"
	"github.com/spec-kit/sharek-engine/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := persistence.Open(ctx, *cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("backend", string(cfg.Store.Backend)), zap.Error(err))
	}
	defer backend.Close()

	dispatcher := events.NewInMemoryDispatcher(logger)
	metrics := observability.NewMetrics()

	userRepo, err := repository.NewUserRepository(ctx, repository.UserRepositoryDependencies{
		Store:            backend.Store,
		Hasher:           auth.NewPasswordHasher(cfg.Auth),
		Dispatcher:       dispatcher,
		Logger:           logger,
		SeedDemoAccounts: cfg.Seed.DemoAccounts,
	})
	if err != nil {
		logger.Fatal("failed to init user repository", zap.Error(err))
	}
	sessionRepo := repository.NewSessionRepository(backend.Store)
	participationRepo := repository.NewParticipationRepository(backend.Store, logger)
	forumRepo := repository.NewForumRepository(repository.ForumRepositoryDependencies{
		Store:      backend.Store,
		Moderator:  moderation.New(),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		Logger:      logger,
	})
	service.NewNotificationService(dispatcher, userRepo, logger).RegisterHandlers()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, backend.Store, metrics),
		Users:         handlers.NewUsersHandler(authService, userRepo),
		Participation: handlers.NewParticipationHandler(participationRepo),
		Forum:         handlers.NewForumHandler(forumRepo, metrics),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("store", string(cfg.Store.Backend)))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
