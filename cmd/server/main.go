package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"facturaval/internal/app"
	"facturaval/internal/config"
	"facturaval/internal/handler"
	"facturaval/internal/logger"
	"facturaval/internal/router"
	"facturaval/internal/service"
)

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

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	logr := logger.Get()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := app.NewEngine(&cfg.Engine)
	if err != nil {
		return fmt.Errorf("failed to build validation engine: %w", err)
	}
	logr.Info("validation engine ready",
		zap.Int("line_item_slots", engine.Catalogue().Slots()),
		zap.Int("tags", engine.Catalogue().Len()))

	extractor, err := app.NewExtractor(&cfg.Extractor, logr)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}

	store, err := app.NewStore(ctx, cfg, logr)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer store.Close()

	storage, err := app.NewObjectStorage(ctx, &cfg.S3, logr)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	// Initialize services
	recordSvc := service.NewRecordService(engine, extractor, store.Repo, storage, &cfg.Upload, logr)

	// Initialize handlers
	recordH := handler.NewRecordHandler(recordSvc, cfg.Upload.MaxBytes())
	pageH := handler.NewPageHandler(recordSvc)
	healthH := handler.NewHealthHandler(store.Repo)

	// Setup router
	r, err := router.Setup(logr, cfg.CORS.AllowedOrigins, recordH, pageH, healthH)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("store", cfg.Store.Driver),
			zap.Bool("extractor", extractor != nil))
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

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
