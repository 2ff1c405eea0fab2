package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product_dashboard/internal/cache"
	"product_dashboard/internal/config"
	"product_dashboard/internal/db"
	httpServer "product_dashboard/internal/http"
	"product_dashboard/internal/http/handlers"
	"product_dashboard/internal/logger"
	"product_dashboard/internal/repository"
	"product_dashboard/internal/scheduler"
	"product_dashboard/internal/seed"
	"product_dashboard/internal/service"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	gin.SetMode(gin.ReleaseMode)

	checks := make(map[string]handlers.Pinger)

	var store service.TransactionStore
	switch cfg.StoreBackend {
	case config.BackendMemory:
		store = repository.NewMemoryRepository()
		logger.Info("using in-memory store")
	default:
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			logger.Fatal("failed to apply migrations", "error", err)
		}
		dbPool := db.Connect(cfg.DatabaseURL, cfg.DBMaxConns)
		defer dbPool.Close()
		store = repository.NewTransactionRepository(dbPool)
	}
	checks["database"] = store

	var (
		redisClient *redis.Client
		respCache   cache.Cache = cache.Nop{}
	)
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTLS)
		if err != nil {
			// keep serving without cache and with the in-process rate limiter
			logger.Warn("redis unavailable, continuing without it", "error", err)
		} else {
			defer client.Close()
			redisClient = client
			respCache = cache.NewRedisCache(client, "dashboard:", cfg.CacheTTL)
			checks["redis"] = cache.RedisPinger{Client: client}
		}
	}

	seeder := service.NewSeeder(seed.NewClient(cfg.SeedURL, cfg.SeedTimeout), store, respCache)
	queries := service.NewQueryService(store, respCache)

	if cfg.SeedOnStartup {
		if _, err := seeder.Initialize(context.Background()); err != nil {
			logger.Error("startup initialize failed", "error", err)
		}
	}
	if cfg.SeedCron != "" {
		job, err := scheduler.NewSeedJob(cfg.SeedCron, seeder)
		if err != nil {
			logger.Fatal("invalid SEED_CRON", "spec", cfg.SeedCron, "error", err)
		}
		defer job.Stop()
	}

	r := httpServer.NewRouter(httpServer.RouteConfig{
		Handler:        handlers.NewHandler(seeder, queries),
		Health:         handlers.NewHealthHandler(checks, cfg.AppVersion),
		Redis:          redisClient,
		RateLimit:      cfg.APIRateLimit,
		RateWindow:     cfg.APIRateWindow,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
