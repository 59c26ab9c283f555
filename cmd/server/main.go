package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"go.uber.org/zap"

	"ccrt-portal/backend/config"
	"ccrt-portal/backend/internal/bootstrap"
)

func main() {
	// 1. configuration
	cfg, err := config.Load(os.Getenv("PORTAL_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. dependency graph
	inj := bootstrap.BuildContainer(cfg)

	logger, err := do.Invoke[*zap.Logger](inj)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting portal",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("force_https", cfg.Server.ForceHTTPS),
	)

	// builds stores, runs migrations and seeds the default admin
	engine, err := do.Invoke[*gin.Engine](inj)
	if err != nil {
		logger.Fatal("failed to initialise application", zap.Error(err))
	}

	// 3. background jobs
	sweeper, err := do.Invoke[*cron.Cron](inj)
	if err != nil {
		logger.Fatal("failed to schedule session sweeper", zap.Error(err))
	}
	sweeper.Start()

	// 4. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	// wait for a running sweep before closing its store
	<-sweeper.Stop().Done()

	bootstrap.Close(inj)

	logger.Info("server stopped")
}
