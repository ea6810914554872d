package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/timesheet-service/internal/api/http"
	"github.com/spec-kit/timesheet-service/internal/api/http/handlers"
	"github.com/spec-kit/timesheet-service/internal/auth"
	"github.com/spec-kit/timesheet-service/internal/config"
	"github.com/spec-kit/timesheet-service/internal/events"
	"github.com/spec-kit/timesheet-service/internal/observability"
	"github.com/spec-kit/timesheet-service/internal/persistence"
	"github.com/spec-kit/timesheet-service/internal/repository"
	"github.com/spec-kit/timesheet-service/internal/service"
	"github.com/spec-kit/timesheet-service/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	entryRepo := repository.NewTimeEntryRepository(pool)
	runRepo := repository.NewBillingRunRepository(pool)
	logRepo := repository.NewStatusLogRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	cache := service.NewCache(redis.Client, cfg.Redis.CacheTTL)

	authService := service.NewAuthService(*cfg, userRepo)
	directoryService := service.NewDirectoryService(departmentRepo, cache)
	entryService := service.NewTimeEntryService(service.TimeEntryDependencies{
		EntryRepo:      entryRepo,
		DepartmentRepo: departmentRepo,
		LogRepo:        logRepo,
		Dispatcher:     dispatcher,
	})
	billingService := service.NewBillingService(service.BillingDependencies{
		RunRepo:    runRepo,
		EntryRepo:  entryRepo,
		LogRepo:    logRepo,
		Dispatcher: dispatcher,
		Cache:      cache,
	})
	approvalService := service.NewApprovalService(service.ApprovalDependencies{
		RunRepo:    runRepo,
		EntryRepo:  entryRepo,
		LogRepo:    logRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Cache:      cache,
		Strict:     cfg.Approval.StrictTransitions,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Departments:    handlers.NewDepartmentsHandler(directoryService),
		TimeEntries:    handlers.NewTimeEntriesHandler(entryService),
		BillingRuns:    handlers.NewBillingRunsHandler(billingService, approvalService),
		Backoffice:     handlers.NewBackofficeHandler(approvalService),
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
