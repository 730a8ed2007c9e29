package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gallery/internal/config"
	"gallery/internal/handler"
	"gallery/internal/logging"
	"gallery/internal/metrics"
	"gallery/internal/port"
	"gallery/internal/router"
	"gallery/internal/service"
	"gallery/internal/storage"

	// Storage providers register themselves with the factory.
	_ "gallery/internal/storage/memory"
	_ "gallery/internal/storage/minio"
	_ "gallery/internal/storage/s3"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.Log)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// The in-process store has no HTTP endpoint of its own; serve it here.
	if cfg.Storage.Provider == "memory" && cfg.Storage.PublicBaseURL == "" {
		cfg.Storage.PublicBaseURL = "/files"
	}

	// Initialize storage
	store, err := storage.New(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	var prom *metrics.Prometheus
	var galleryMetrics port.GalleryMetrics = metrics.Noop{}
	if cfg.Metrics.Enabled {
		prom = metrics.NewPrometheus(metrics.WithNamespace(cfg.Metrics.Namespace))
		galleryMetrics = prom
	}

	// Initialize services
	guard := service.NewSelectionGuard(&cfg.Upload)
	gallery := service.NewGallerySync(store, guard, galleryMetrics, &cfg.Storage)

	// Initialize handlers
	galleryH := handler.NewGalleryHandler(guard, gallery, cfg.Upload.MaxFileSizeBytes, exportName(&cfg.Storage))
	pageH := handler.NewPageHandler(guard, gallery, cfg.Upload.MaxFileSizeBytes)
	healthH := handler.NewHealthHandler()
	var fileH *handler.FileHandler
	if reader, ok := store.(handler.ObjectReader); ok {
		fileH = handler.NewFileHandler(reader)
	}

	r := router.Setup(cfg.CORS.AllowedOrigins, galleryH, pageH, healthH, fileH, prom)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initial load; a failure leaves the gallery empty and is already logged.
	go func() {
		_ = gallery.Reload(context.WithoutCancel(ctx))
		healthH.MarkReady()
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"addr", cfg.Server.Port, "provider", cfg.Storage.Provider, "bucket", cfg.Storage.Bucket)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func exportName(cfg *config.StorageConfig) string {
	if cfg.ProjectID != "" {
		return cfg.ProjectID
	}
	if cfg.Bucket != "" {
		return cfg.Bucket
	}
	return "gallery"
}
