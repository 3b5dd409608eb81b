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

	"github.com/agcomphr25/Comprehensive-Training-App/internal/api"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/config"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/events"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/observability"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/service"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/storage"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/store"
)

// @title Comprehensive Training API
// @version 1.0
// @description 4-day certification training plans, live sessions and the trainee knowledge ledger.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		// Logger isn't configured yet.
		bootLog, _ := logger.New("production")
		bootLog.Fatal("could not load config", "error", err)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting training server", "database_driver", cfg.Database.Driver, "auth_enabled", cfg.Auth.Enabled)

	ctx := context.Background()

	// --- Tracing ---
	shutdownTracing, err := observability.InitTracing(ctx, log, cfg.Tracing, cfg.Server.Mode)
	if err != nil {
		log.Fatal("failed to initialize tracing", "error", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	// --- Database ---
	repos, closeStore, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("could not open database", "error", err)
	}
	defer func() {
		log.Info("closing database")
		if err := closeStore(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	// --- Event Bus ---
	bus := events.NewNoopBus()
	if cfg.Redis.Addr != "" {
		redisBus, err := events.NewRedisBus(log, cfg.Redis.Addr, cfg.Redis.Channel)
		if err != nil {
			log.Fatal("could not connect to redis", "error", err)
		}
		bus = redisBus
	}
	defer bus.Close()

	// --- Storage ---
	fileStorage, err := storage.NewS3Storage(ctx, cfg.S3, log)
	switch {
	case errors.Is(err, storage.ErrStorageDisabled):
		log.Info("plan export disabled; no s3 bucket configured")
	case err != nil:
		log.Fatal("failed to initialize S3 storage", "error", err)
	}

	// --- Services ---
	services := api.Services{
		Plans:    service.NewTrainingPlanService(repos, bus, fileStorage, log),
		Trainees: service.NewTraineeService(repos.Trainees, log),
		Sessions: service.NewSessionService(repos, log),
	}

	// --- HTTP ---
	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(cfg, services, log)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", "error", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("server exiting")
}
