package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mamareykjavik-backend/internal/config"
	"mamareykjavik-backend/pkg/container"
	"mamareykjavik-backend/pkg/logger"
)

func main() {
	// .env is optional; real deployments set environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", err)
		os.Exit(1)
	}

	logger.Init(cfg.App.Environment)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap", err)
		os.Exit(1)
	}
	defer c.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           setupRouter(c),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", map[string]interface{}{
			"port": cfg.App.Port,
			"env":  cfg.App.Environment,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", err)
	}
}
