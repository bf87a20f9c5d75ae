package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/cron"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/inventory"
	syncengine "github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/sync"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/synclog"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/config"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/metrics"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/migrate"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/provider"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	tokens := provider.NewTokenManager(provider.ResolveBaseURL(cfg.Provider), cfg.Provider.Key, cfg.Provider.Secret, nil)
	providerClient, err := provider.NewClient(cfg.Provider, tokens, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create provider client", err)
		os.Exit(1)
	}

	syncMetrics := metrics.NewSyncMetrics(prometheus.DefaultRegisterer)
	engine := syncengine.NewEngine(
		providerClient,
		inventory.NewRepository(dbClient.DB()),
		synclog.NewRepository(dbClient.DB()),
		cfg.Provider.AdvertiserID,
		logg,
		syncMetrics,
	)

	jobMetrics := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("stock_sync"), cfg.Sync.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(cron.NewStockSyncJob(engine))
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Interval: cfg.Sync.Interval,
		Metrics:  jobMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
