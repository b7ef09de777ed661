package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kerhoff/RepBoT/internal/config"
	"github.com/Kerhoff/RepBoT/internal/devserver"
	"github.com/Kerhoff/RepBoT/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel, cfg.LogFormat)

	secret := cfg.DevServerSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			l.Fatalf("Failed to generate token secret: %v", err)
		}
		secret = hex.EncodeToString(buf)
		l.Warn("DEVSERVER_SECRET not set, tokens will not survive a restart")
	}

	srv := devserver.NewServer(devserver.Options{Secret: secret}, l)
	httpServer := &http.Server{
		Addr:              ":" + cfg.DevServerPort,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		l.Infof("Dev backend listening on http://localhost:%s/api", cfg.DevServerPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	l.Info("Shutting down dev backend...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("Shutdown error: %v", err)
	}
}
