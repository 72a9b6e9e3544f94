// Package main is the entry point for the notify service HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/etuni/notify-service/internal/config"
	"github.com/etuni/notify-service/internal/database"
	"github.com/etuni/notify-service/internal/email"
	"github.com/etuni/notify-service/internal/logging"
	"github.com/etuni/notify-service/internal/repository"
	"github.com/etuni/notify-service/internal/reset"
	"github.com/etuni/notify-service/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, err := database.New(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("error closing database", zap.Error(err))
		}
	}()
	logger.Info("connected to database")

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	mailer, err := newMailer(ctx, &cfg.Email, logger)
	if err != nil {
		return err
	}
	logger.Info("email transport configured", zap.String("provider", cfg.Email.Provider))

	dispatcher := email.NewDispatcher(mailer, logger, email.DispatcherConfig{
		QueueSize:   cfg.Email.QueueSize,
		Workers:     cfg.Email.Workers,
		SendTimeout: cfg.Email.SendTimeout,
	})

	resets, err := reset.NewService(
		repository.NewPostgresUserRepository(db.DB),
		repository.NewPostgresResetTokenRepository(db.DB),
		dispatcher,
		logger,
		reset.Config{AppName: cfg.Reset.AppName, URLBase: cfg.Reset.URLBase},
	)
	if err != nil {
		return err
	}

	router := server.New(&server.Dependencies{
		Config:   cfg,
		DB:       db,
		Resets:   resets,
		Notifier: dispatcher,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown incomplete", zap.Error(err))
	}

	// Queued emails get whatever time is left
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		stats := dispatcher.Stats()
		logger.Warn("email queue not drained", zap.Error(err), zap.Int("queued", stats.Queued))
	}

	logger.Info("server stopped")
	return nil
}
