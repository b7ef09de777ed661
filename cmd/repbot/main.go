package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RepBoT/internal/config"
	"github.com/Kerhoff/RepBoT/internal/dashboard"
	"github.com/Kerhoff/RepBoT/internal/handlers"
	"github.com/Kerhoff/RepBoT/internal/repository"
	"github.com/Kerhoff/RepBoT/internal/repository/memory"
	"github.com/Kerhoff/RepBoT/internal/repository/postgres"
	"github.com/Kerhoff/RepBoT/internal/repository/redis"
	"github.com/Kerhoff/RepBoT/internal/repository/sqlite"
	"github.com/Kerhoff/RepBoT/internal/service"
	"github.com/Kerhoff/RepBoT/internal/telegram"
	"github.com/Kerhoff/RepBoT/internal/transport"
	"github.com/Kerhoff/RepBoT/pkg/logger"
)

const (
	workspaceSweepInterval = 10 * time.Minute
	workspaceIdleTTL       = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateBot(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel, cfg.LogFormat)
	l.Info("Starting RepBoT...")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	// Session storage
	sessions, closeSessions, err := openSessions(ctx, cfg, l)
	if err != nil {
		l.Fatalf("Failed to open %s session storage: %v", cfg.SessionBackend, err)
	}
	defer closeSessions()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Service layer
	svc := service.New(sessions, service.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
	}, transport.NewMetrics(reg), dashboard.NewMetrics(reg), l)
	go svc.StartWorkspaceJanitor(ctx, workspaceSweepInterval, max(workspaceIdleTTL, 4*cfg.APITimeout))

	// Telegram bot
	bot, err := telegram.NewBot(cfg.TelegramToken, l)
	if err != nil {
		l.Fatalf("Failed to create Telegram bot: %v", err)
	}
	handlers.RegisterAll(bot, svc, l)

	// Start HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	metricsServer := &http.Server{
		Addr:              ":" + cfg.PrometheusPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		l.Infof("Metrics server listening on :%s", cfg.PrometheusPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("Metrics server error: %v", err)
		}
	}()

	l.WithFields(logrus.Fields{
		"api":     cfg.APIBaseURL,
		"backend": cfg.SessionBackend,
	}).Info("RepBoT started successfully")

	// Telegram bot polling; returns once ctx is cancelled and in-flight
	// updates are handled.
	if err := bot.Start(ctx); err != nil {
		l.Errorf("Bot error: %v", err)
		cancel()
	}

	l.Info("Shutting down metrics server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsServer.Shutdown(shutdownCtx)

	l.Info("RepBoT stopped")
}

// openSessions opens the configured session backend. The returned function
// releases it.
func openSessions(ctx context.Context, cfg *config.Config, l *logrus.Logger) (repository.SessionRepository, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		l.Infof("Sessions stored in %s", cfg.SQLitePath)
		return sqlite.NewSessionRepository(db), func() { sqlDB.Close() }, nil

	case config.BackendPostgres:
		db, err := config.OpenPostgres(ctx, cfg.DatabaseURL, cfg.MigrationsPath, l)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewSessionRepository(db), func() { db.Close() }, nil

	case config.BackendRedis:
		client, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return redis.NewSessionRepository(client), func() { client.Close() }, nil

	default:
		l.Warn("Sessions are kept in memory and lost on restart")
		return memory.NewSessionRepository(), func() {}, nil
	}
}
