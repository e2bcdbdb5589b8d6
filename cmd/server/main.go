/**
 * @description
 * This is the main entry point for the labstock backend. It initializes and
 * wires together all the components of the application — configuration,
 * database connection, repositories, services, event producer, scheduler and
 * the HTTP router — and starts the HTTP server.
 */
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/labstock/labstock-backend/internal/api"
	"github.com/labstock/labstock-backend/internal/app"
	"github.com/labstock/labstock-backend/internal/config"
	"github.com/labstock/labstock-backend/internal/store"
	"github.com/labstock/labstock-backend/pkg/rabbitmq"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load .env for local development; environment variables win in deploys.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Establish connection to PostgreSQL with connection pool configuration
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to parse database URL", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = 25
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	dbpool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	// The audit event producer is optional: without a broker the server logs
	// events through the fallback instead of refusing to start.
	var producer rabbitmq.Publisher
	if cfg.RabbitMQURL != "" {
		p, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("rabbitmq unavailable, using fallback producer", "error", err)
			producer = &rabbitmq.EventProducerFallback{}
		} else {
			producer = p
		}
	} else {
		producer = &rabbitmq.EventProducerFallback{}
	}
	defer producer.Close()

	// Initialize application layers
	userRepo := store.NewPostgresUserRepository(dbpool)
	inventoryRepo := store.NewPostgresInventoryRepository(dbpool)
	historyRepo := store.NewPostgresHistoryRepository(dbpool)
	labRepo := store.NewPostgresLaboratoryRepository(dbpool)
	subRepo := store.NewPostgresSubscriptionRepository(dbpool)

	iamService := app.NewIamService(userRepo, subRepo, logger, cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	handler := api.NewHandler(iamService, userRepo, inventoryRepo, historyRepo, labRepo, subRepo, producer, logger)
	router := api.NewRouter(handler, cfg.JWTSecret)

	// Start the subscription expiry sweep
	scheduler := app.NewScheduler(app.NewJobs(subRepo, logger), logger, cfg.SubscriptionSweepCron)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	logger.Info("shutdown signal received, gracefully shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	logger.Info("server stopped")
}
