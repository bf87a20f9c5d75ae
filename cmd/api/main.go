package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/api/routes"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/inventory"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/staff"
	syncengine "github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/sync"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/synclog"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/webhooks"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/config"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/metrics"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/migrate"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/provider"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	syncMetrics := metrics.NewSyncMetrics(registry)

	vehicleRepo := inventory.NewRepository(dbClient.DB())
	syncLogRepo := synclog.NewRepository(dbClient.DB())
	staffRepo := staff.NewRepository(dbClient.DB())

	engine := syncengine.NewEngine(providerClient, vehicleRepo, syncLogRepo, cfg.Provider.AdvertiserID, logg, syncMetrics)
	webhookService := webhooks.NewService(providerClient, vehicleRepo, syncLogRepo, logg, syncMetrics)
	webhookGuard := webhooks.NewRedisGuard(redisClient)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DBPinger:      dbClient,
			CachePinger:   redisClient,
			Vehicles:      vehicleRepo,
			AdminVehicles: vehicleRepo,
			SyncLogs:      syncLogRepo,
			SyncEngine:    engine,
			Staff:         staffRepo,
			WebhookSvc:    webhookService,
			WebhookGuard:  webhookGuard,
			Registry:      registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
