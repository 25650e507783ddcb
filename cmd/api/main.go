package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Masomatta/Afg-egov-portal/internal/api/http"
	"github.com/Masomatta/Afg-egov-portal/internal/api/http/handlers"
	"github.com/Masomatta/Afg-egov-portal/internal/auth"
	"github.com/Masomatta/Afg-egov-portal/internal/config"
	"github.com/Masomatta/Afg-egov-portal/internal/events"
	"github.com/Masomatta/Afg-egov-portal/internal/observability"
	"github.com/Masomatta/Afg-egov-portal/internal/persistence"
	"github.com/Masomatta/Afg-egov-portal/internal/repository"
	"github.com/Masomatta/Afg-egov-portal/internal/service"
	"github.com/Masomatta/Afg-egov-portal/internal/storage"
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

	store, err := newDocumentStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init document storage", zap.Error(err))
	}

	pool := pg.PoolHandle()
	repos := repository.New(pool)
	txManager := repository.NewTxManager(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notifier := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	notifier.RegisterHandlers()

	accountService := service.NewAccountService(*cfg, repos.Users)
	requestService := service.NewRequestService(service.RequestDependencies{
		Repos:      repos,
		Tx:         txManager,
		Store:      store,
		Dispatcher: dispatcher,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		Repos:  repos,
		Cache:  redis.Client,
		Config: cfg,
		Logger: logger,
	})

	authMiddleware := auth.NewAuthMiddleware(accountService.TokenManager(), repos.Users)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Upload.MaxFileSizeBytes)*cfg.Upload.MaxFiles + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	if cfg.Storage.Driver == "local" {
		app.Static(cfg.Storage.LocalBaseURL, cfg.Storage.LocalDir)
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(accountService),
		Citizen:        handlers.NewCitizenHandler(requestService, adminService, cfg.Upload),
		Officer:        handlers.NewOfficerHandler(requestService, repos.Users),
		Admin:          handlers.NewAdminHandler(adminService),
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

func newDocumentStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "s3":
		logger.Info("using s3 document storage", zap.String("bucket", cfg.Storage.S3Bucket))
		return storage.NewS3Store(ctx, cfg.Storage)
	default:
		logger.Info("using local document storage", zap.String("dir", cfg.Storage.LocalDir))
		return storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.LocalBaseURL)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
