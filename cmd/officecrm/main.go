package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/officecrm/internal/config"
	"github.com/dukerupert/officecrm/internal/database"
	"github.com/dukerupert/officecrm/internal/logging"
	"github.com/dukerupert/officecrm/internal/server"
	"github.com/dukerupert/officecrm/internal/storage"
	"github.com/dukerupert/officecrm/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "officecrm: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		ServiceName:  cfg.Telemetry.ServiceName,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		SampleRatio:  cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	dsn := cfg.DBPath
	if cfg.DBDriver == database.DriverPostgres {
		dsn = cfg.DBDSN
	}
	sqlDB, err := database.OpenDriver(cfg.DBDriver, dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer sqlDB.Close()

	db, err := database.OpenGorm(sqlDB, cfg.DBDriver, logger.With("component", "gorm"))
	if err != nil {
		return fmt.Errorf("open gorm: %w", err)
	}

	blobs, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(cfg, db, blobs, logger)
	srv.RateLimiter().StartCleanup(ctx, 5*time.Minute)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("officecrm listening", "addr", httpServer.Addr, "db_driver", cfg.DBDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStorage picks the S3 bucket when configured and local disk otherwise.
func openStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3.Enabled() {
		logger.Info("file storage", "backend", "s3", "bucket", cfg.S3.Bucket)
		return storage.NewS3(storage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		}), nil
	}
	disk, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("open upload dir: %w", err)
	}
	logger.Info("file storage", "backend", "disk", "dir", cfg.UploadDir)
	return disk, nil
}
