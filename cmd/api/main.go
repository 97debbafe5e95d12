package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/khalidshboul/smart-basket-admin/api/routes"
	"github.com/khalidshboul/smart-basket-admin/internal/basket"
	"github.com/khalidshboul/smart-basket-admin/internal/bulkupload"
	category "github.com/khalidshboul/smart-basket-admin/internal/categories"
	item "github.com/khalidshboul/smart-basket-admin/internal/items"
	price "github.com/khalidshboul/smart-basket-admin/internal/prices"
	storeitem "github.com/khalidshboul/smart-basket-admin/internal/storeitems"
	store "github.com/khalidshboul/smart-basket-admin/internal/stores"
	"github.com/khalidshboul/smart-basket-admin/pkg/config"
	"github.com/khalidshboul/smart-basket-admin/pkg/db"
	"github.com/khalidshboul/smart-basket-admin/pkg/logger"
	"github.com/khalidshboul/smart-basket-admin/pkg/metrics"
	"github.com/khalidshboul/smart-basket-admin/pkg/migrate"
	"github.com/khalidshboul/smart-basket-admin/pkg/redis"
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

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsReg := metrics.New(promReg)

	categoryRepo := category.NewRepository(dbClient)
	itemRepo := item.NewRepository(dbClient)
	storeRepo := store.NewRepository(dbClient)
	storeItemRepo := storeitem.NewRepository(dbClient)
	priceRepo := price.NewRepository(dbClient)
	basketRepo := basket.NewRepository(dbClient)
	uploadRepo := bulkupload.NewRepository(dbClient)

	snapshotCache := basket.NewSnapshotCache(redisClient, cfg.Basket.SnapshotTTL, logg, metricsReg)
	basketService := basket.NewService(basketRepo, snapshotCache, metricsReg, cfg.Basket.MaxItems)

	categoryService, err := category.NewService(categoryRepo, basketService)
	requireService(logg, "category", err)

	itemService, err := item.NewService(itemRepo, categoryRepo, basketService)
	requireService(logg, "item", err)

	storeService, err := store.NewService(storeRepo, basketService)
	requireService(logg, "store", err)

	storeItemService, err := storeitem.NewService(storeItemRepo, storeRepo, itemRepo, basketService)
	requireService(logg, "store item", err)

	priceService, err := price.NewService(priceRepo, basketService)
	requireService(logg, "price", err)

	uploadService, err := bulkupload.NewService(uploadRepo, basketService, metricsReg, cfg.Upload.MaxRows)
	requireService(logg, "bulk upload", err)

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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			metricsReg,
			promReg,
			categoryService,
			itemService,
			storeService,
			storeItemService,
			priceService,
			basketService,
			uploadService,
		),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server stopped")
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
