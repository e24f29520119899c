package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/spa-booking-platform/internal/api/router"
	"github.com/wolfman30/spa-booking-platform/internal/app/bootstrap"
	"github.com/wolfman30/spa-booking-platform/internal/availability"
	appconfig "github.com/wolfman30/spa-booking-platform/internal/config"
	httpmiddleware "github.com/wolfman30/spa-booking-platform/internal/http/middleware"
	"github.com/wolfman30/spa-booking-platform/internal/location"
	"github.com/wolfman30/spa-booking-platform/pkg/logging"
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting spa-booking-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient == nil {
		logger.Error("redis is required for location records", "addr", cfg.RedisAddr)
		os.Exit(1)
	}
	defer redisClient.Close()

	pool, err := bootstrap.ConnectPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil || pool == nil {
		logger.Error("postgres is required for bookings", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	sqlDB, err := bootstrap.OpenSQLDB(ctx, cfg.DatabaseURL)
	if err != nil || sqlDB == nil {
		logger.Error("postgres is required for the service catalog", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	metricsHandler, registry := setupMetrics()

	stack, err := bootstrap.BuildAvailability(cfg, bootstrap.AvailabilityDeps{
		Redis:    redisClient,
		Pool:     pool,
		SQLDB:    sqlDB,
		Registry: registry,
	}, logger)
	if err != nil {
		logger.Error("failed to build availability service", "error", err)
		os.Exit(1)
	}

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	// Setup router
	r := router.New(&router.Config{
		Logger:              logger,
		AvailabilityHandler: availability.NewHandler(stack.Service, logger),
		LocationHandler:     location.NewHandler(stack.LocationStore, logger),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		MetricsHandler:      metricsHandler,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimiter:         limiter,
		ReadinessChecks: map[string]router.ReadinessCheck{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server stopped")
}

// setupMetrics builds a dedicated registry with Go runtime collectors and
// the handler that exposes it.
func setupMetrics() (http.Handler, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), reg
}
