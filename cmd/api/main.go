package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/serenenow/scheduling/internal/api/router"
	"github.com/serenenow/scheduling/internal/booking"
	"github.com/serenenow/scheduling/internal/bookingflow"
	appconfig "github.com/serenenow/scheduling/internal/config"
	"github.com/serenenow/scheduling/internal/expert"
	"github.com/serenenow/scheduling/internal/http/handlers"
	"github.com/serenenow/scheduling/internal/observability/metrics"
	"github.com/serenenow/scheduling/internal/sereneapi"
	"github.com/serenenow/scheduling/pkg/logging"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting scheduling API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Metrics
	registry := prometheus.NewRegistry()
	schedMetrics := metrics.NewSchedulingMetrics(registry)

	// Redis backs the slot cache and booking sessions
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	slotCache := redisClient
	if cfg.DisableSlotCache {
		slotCache = nil
	}

	// Upstream SereneNow API client
	apiClient := sereneapi.NewClient(cfg.APIBaseURL, cfg.APIKey, logger,
		sereneapi.WithTimeout(cfg.APITimeout))

	// Services
	expertSvc := expert.NewService(apiClient, logger, schedMetrics)
	bookingSvc := booking.NewService(apiClient, slotCache, cfg.SlotCacheTTL, logger, schedMetrics)
	sessionStore := bookingflow.NewSessionStore(redisClient, cfg.SessionTTL)

	// Handlers
	availabilityHandler := handlers.NewAvailabilityHandler(expertSvc, cfg.DefaultTimezone, logger)
	bookingHandler := handlers.NewBookingHandler(bookingSvc, cfg.BookingHorizonMonths, cfg.DefaultTimezone, logger)
	sessionHandler := handlers.NewSessionHandler(sessionStore, bookingSvc,
		bookingflow.ParsePolicy(cfg.StepEditPolicy), cfg.PublicFlow, cfg.DefaultTimezone, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger:              logger,
		AvailabilityHandler: availabilityHandler,
		BookingHandler:      bookingHandler,
		SessionHandler:      sessionHandler,
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
