package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/moderation-service/internal/api/http"
	"github.com/spec-kit/moderation-service/internal/api/http/handlers"
	"github.com/spec-kit/moderation-service/internal/audit"
	"github.com/spec-kit/moderation-service/internal/auth"
	"github.com/spec-kit/moderation-service/internal/config"
	"github.com/spec-kit/moderation-service/internal/events"
	"github.com/spec-kit/moderation-service/internal/gateway"
	"github.com/spec-kit/moderation-service/internal/moderation"
	"github.com/spec-kit/moderation-service/internal/observability"
	"github.com/spec-kit/moderation-service/internal/persistence"
	"github.com/spec-kit/moderation-service/internal/repository"
	"github.com/spec-kit/moderation-service/internal/service"
	"github.com/spec-kit/moderation-service/internal/worker"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	pool := pg.PoolHandle()

	reportRepo := repository.NewReportRepository(pool)
	listingRepo := repository.NewListingRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	collaborators := moderation.Collaborators{
		Reports:  gateway.NewReportGateway(reportRepo, cfg.Moderation.SnapshotLimit, logger),
		Listings: gateway.NewListingGateway(listingRepo, cfg.Moderation.SnapshotLimit, logger),
		Users:    gateway.NewUserGateway(userRepo, cfg.Moderation.SnapshotLimit, logger),
	}

	decisionLog := audit.NewTieredStore(
		audit.NewPostgresBackend(pool, cfg.Audit.LoadLimit),
		audit.NewRedisBackend(redis.Client, cfg.Audit.CacheKey, cfg.Audit.CacheLimit),
		logger,
	)
	decisionLog.OnDowngrade(metrics.RecordAuditDowngrade)

	eventBus := events.NewInMemoryDispatcher()
	dispatcher := moderation.NewDispatcher(collaborators, decisionLog, eventBus, metrics, logger)
	bulk := moderation.NewBulkCoordinator(dispatcher, collaborators, eventBus, metrics, logger)

	moderationService := service.NewModerationService(service.ModerationDependencies{
		Collaborators: collaborators,
		Dispatcher:    dispatcher,
		Bulk:          bulk,
		Decisions:     decisionLog,
		Metrics:       metrics,
		Logger:        logger,
		HistoryLimit:  cfg.Audit.HistoryDisplayLimit,
	})
	if err := moderationService.Start(ctx); err != nil {
		logger.Fatal("failed to start moderation workspace", zap.Error(err))
	}

	authService := service.NewAuthService(cfg.Auth, adminRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), adminRepo)

	notificationService := service.NewNotificationService(eventBus, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Moderation:     handlers.NewModerationHandler(moderationService),
		AuthMiddleware: authMiddleware,
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
