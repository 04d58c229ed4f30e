package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/printdesk/printdesk/internal/app"
	"github.com/printdesk/printdesk/internal/catalog"
	"github.com/printdesk/printdesk/internal/clients"
	"github.com/printdesk/printdesk/internal/files"
	"github.com/printdesk/printdesk/internal/jobs"
	"github.com/printdesk/printdesk/internal/observability"
	"github.com/printdesk/printdesk/internal/orders"
	"github.com/printdesk/printdesk/internal/platform/cache"
	"github.com/printdesk/printdesk/internal/platform/db"
	"github.com/printdesk/printdesk/internal/procurement"
	"github.com/printdesk/printdesk/internal/reporting"
	"github.com/printdesk/printdesk/internal/users"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	catalogService := catalog.NewService(
		catalog.NewRepository(pool),
		catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
	)
	clientService := clients.NewService(clients.NewRepository(pool))
	userService := users.NewService(users.NewRepository(pool))

	orderService := orders.NewService(orders.NewRepository(pool), catalogService, clientService)
	orderService.SetDesignerDirectory(userService)
	orderService.SetTransitionRecorder(metrics)

	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	orderService.SetPurchaseRequestSink(procurement.NewQueueSink(jobClient))

	fileStore, err := files.NewStore(ctx, files.Config{
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		URLExpiry:       cfg.S3URLExpiry,
	})
	if err != nil {
		logger.Error("init file store", slog.Any("error", err))
		os.Exit(1)
	}
	orderService.SetFileStore(fileStore)

	procurementService := procurement.NewService(procurement.NewRepository(pool))
	reportingService := reporting.NewService(reporting.NewRepository(pool), redisClient, cfg.RegisterCacheTTL)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		OrdersHandler:      orders.NewHandler(orderService),
		CatalogHandler:     catalog.NewHandler(logger, catalogService),
		ClientsHandler:     clients.NewHandler(logger, clientService),
		UsersHandler:       users.NewHandler(logger, userService),
		ProcurementHandler: procurement.NewHandler(logger, procurementService),
		ReportingHandler:   reporting.NewHandler(logger, reportingService),
		Metrics:            metrics,
	})

	if err := app.Serve(ctx, cfg, logger, router); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server run", slog.Any("error", err))
		os.Exit(1)
	}
}
