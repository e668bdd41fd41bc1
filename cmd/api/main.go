package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/samcharmz/charmz-backend/api/routes"
	"github.com/samcharmz/charmz-backend/internal/auth"
	"github.com/samcharmz/charmz-backend/internal/catalog"
	"github.com/samcharmz/charmz-backend/internal/checkout"
	"github.com/samcharmz/charmz-backend/internal/shop"
	"github.com/samcharmz/charmz-backend/internal/shop/snapshot"
	"github.com/samcharmz/charmz-backend/pkg/config"
	"github.com/samcharmz/charmz-backend/pkg/db"
	"github.com/samcharmz/charmz-backend/pkg/logger"
	"github.com/samcharmz/charmz-backend/pkg/metrics"
	"github.com/samcharmz/charmz-backend/pkg/migrate"
	"github.com/samcharmz/charmz-backend/pkg/redis"
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

	catalogRepo := catalog.NewRepository(dbClient.DB())
	if cfg.FeatureFlags.SeedCatalog {
		if err := catalog.Seed(context.Background(), catalogRepo); err != nil {
			logg.Error(context.Background(), "failed to seed catalog", err)
			os.Exit(1)
		}
	}

	// Redis is optional: required for the redis snapshot backend, otherwise
	// only used for auth rate limiting when configured.
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	var snapshots shop.SnapshotStore
	if cfg.Shop.UsesRedisSnapshots() {
		if redisClient == nil {
			logg.Error(context.Background(), "redis snapshot backend selected but redis is not configured", nil)
			os.Exit(1)
		}
		snapshots, err = snapshot.NewRedisStore(redisClient, cfg.Shop.SnapshotTTL)
	} else {
		snapshots, err = snapshot.NewSQLStore(dbClient.DB())
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create snapshot store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	shopMetrics := metrics.NewShopMetrics(registry)

	shopService, err := shop.NewService(shop.ServiceParams{
		Store:   snapshots,
		Logger:  logg,
		Metrics: shopMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create shop service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:   catalogRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Shop:     shopService,
		Password: cfg.Password,
		Delay:    cfg.Shop.AuthDelay,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Shop:    shopService,
		Repo:    checkout.NewRepository(dbClient.DB()),
		Delay:   cfg.Shop.CheckoutDelay,
		Logger:  logg,
		Metrics: shopMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

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
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			shopService,
			catalogService,
			authService,
			checkoutService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
