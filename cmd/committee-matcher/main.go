// cmd/committee-matcher/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"committee-matcher/internal/app"
	"committee-matcher/internal/common/config"
	"committee-matcher/internal/common/logger"
	"committee-matcher/internal/common/observability"
)

func main() {
	bootLog, err := logger.New("info", "json")
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		bootLog.Fatal("logger init failed", zap.Error(err))
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(ctx); err != nil {
			zapLog.Error("observability shutdown failed", zap.Error(err))
		}
	}()

	application, err := app.New(cfg, log, obs)
	if err != nil {
		zapLog.Fatal("app init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		zapLog.Fatal("server stopped with error", zap.Error(err))
	}
	zapLog.Info("Committee matcher stopped gracefully")
}
