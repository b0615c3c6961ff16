package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/folio/internal/api"
	"github.com/vytor/folio/internal/db"
	"github.com/vytor/folio/internal/jobs"
	"github.com/vytor/folio/internal/logger"
	"github.com/vytor/folio/internal/repository/sqlite"
	"github.com/vytor/folio/internal/services"
	"github.com/vytor/folio/internal/worker"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := logger.Default()

			log.Info("===========================================")
			log.Info("Folio Server Starting")
			log.Info("===========================================")
			log.Debug("addr=%s", cfg.Addr)
			log.Debug("db_path=%s", cfg.DBPath)
			log.Debug("log_level=%s", cfg.LogLevel)
			log.Debug("session_ttl=%s", cfg.SessionTTL)
			log.Debug("cleanup_interval=%s", cfg.CleanupInterval)
			log.Debug("worker_count=%d", cfg.WorkerCount)
			log.Debug("queue_size=%d", cfg.QueueSize)
			log.Debug("context_reading_max_limit=%d", cfg.ContextReadingMaxLimit)

			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() {
				log.Debug("closing database connection")
				database.Close()
			}()

			cardRepo := sqlite.NewCardRepository(database.DB)
			authService := services.NewAuthService(
				sqlite.NewUserRepository(database.DB),
				sqlite.NewSessionRepository(database.DB),
				cfg.SessionTTL,
			)

			srv := &api.Server{
				Auth:                   authService,
				Folders:                services.NewFolderService(sqlite.NewFolderRepository(database.DB)),
				Cards:                  services.NewCardService(cardRepo),
				ContextReading:         services.NewContextReadingService(cardRepo, sqlite.NewContextReadingRepository(database.DB)),
				DB:                     database,
				ContextReadingMaxLimit: cfg.ContextReadingMaxLimit,
				RequestTimeout:         cfg.RequestTimeout,
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize)
			pool.Start(runCtx)
			queue := jobs.NewWorkerQueue(pool, authService)
			go jobs.RunPeriodic(logger.NewContext(runCtx, log), cfg.CleanupInterval, "session_cleanup", queue.EnqueueSessionCleanup)

			httpServer := &http.Server{
				Addr:         cfg.Addr,
				Handler:      srv.Routes(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: cfg.RequestTimeout + 5*time.Second,
				IdleTimeout:  60 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				log.Info("HTTP server listening on %s", cfg.Addr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case err := <-serveErr:
				pool.Stop()
				return fmt.Errorf("http server: %w", err)
			case <-runCtx.Done():
				log.Info("shutdown signal received, initiating graceful shutdown")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			log.Debug("shutting down HTTP server")
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Error("HTTP server shutdown error: %v", err)
			}
			log.Debug("stopping worker pool")
			pool.Stop()

			log.Info("===========================================")
			log.Info("Folio Server Stopped")
			log.Info("===========================================")
			return nil
		},
	}
}
