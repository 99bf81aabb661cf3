package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"linx/social-api/app"
	"linx/social-api/config"
	"linx/social-api/internal"
	"linx/social-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Setup()
	if err != nil {
		panic(err)
	}

	if err := app.MakeLogger(cfg.App); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := internal.NewDeps(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to start", zap.Error(err))
	}

	if !cfg.Mail.Enabled() {
		zap.L().Warn("SMTP is not configured, mails will only be logged")
	}

	go service.CodeCleanup(ctx, cfg.Cleanup.Interval, d.Store)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Host.Port),
		Handler:           app.NewRouter(ctx, d),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Server starting", zap.Int("port", cfg.Host.Port))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Failed to shut down cleanly", zap.Error(err))
	}
}
