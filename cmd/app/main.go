package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/audit"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/config"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/db"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/logger"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/metrics"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/server"
)

// @title Wave Studio API
// @version 1.0
// @description Back office API for a fitness studio: trainers, clients, subscriptions, sessions and trainer income.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting Wave studio application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Info("Configuration loaded",
		"commission_rate", cfg.Studio.CommissionRate,
		"session_duration", cfg.Studio.SessionDuration,
		"timezone", cfg.Studio.Timezone,
		"conflict_mode", cfg.Studio.ConflictMode,
	)

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var publisher audit.Publisher = audit.Nop()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, audit trail disabled", "addr", cfg.RedisAddr, "error", err)
	} else {
		redisPublisher := audit.NewPublisher(rdb, cfg.Studio.AuditQueue)
		publisher = redisPublisher
		metrics.RegisterAuditQueueDepth(func() float64 {
			return float64(redisPublisher.QueueLength(context.Background()))
		})
		go audit.NewWorker(rdb, audit.NewRepository(database), cfg.Studio.AuditQueue).Start(ctx)
		logger.Info("Audit worker initialized", "queue", cfg.Studio.AuditQueue)
	}

	srv := server.New(database, cfg, publisher)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	cancel()

	logger.Info("Server stopped")
}
