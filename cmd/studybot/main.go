package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/wonyeong0810/studyBot/internal/app/bootstrap"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("studybot exited", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	coreCfg, appCfg, err := bootstrap.LoadConfig(logger)
	if err != nil {
		return err
	}
	if err := bootstrap.ValidateConfig(coreCfg, appCfg, logger); err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	deps, err := bootstrap.ConnectDB(connectCtx, coreCfg, appCfg, logger)
	cancel()
	if err != nil {
		return err
	}

	app, err := bootstrap.Startup(ctx, coreCfg, appCfg, deps, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    appCfg.HealthAddr,
		Handler: bootstrap.BuildHandler(app, logger),
	}
	go func() {
		logger.Info("health endpoint listening", zap.String("addr", appCfg.HealthAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", zap.Error(err))
		}
	}()

	if err := app.Start(); err != nil {
		return err
	}
	logger.Info("studybot running")

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown failed", zap.Error(err))
	}
	return app.Shutdown(shutdownCtx)
}
