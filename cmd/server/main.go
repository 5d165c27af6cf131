package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docgen/internal"
	"docgen/internal/config"
	"docgen/internal/generate"
	"docgen/internal/handlers"
	"docgen/internal/services"
	"docgen/internal/storage"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(cfg)

	if err := internal.InitDB(cfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer internal.CloseDB()
	logger.Info().Str("db", cfg.Database.DBName).Msg("database connected")

	ctx := context.Background()
	store, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize blob storage")
	}

	catalogService := services.NewCatalogService(internal.DB)
	templateService := services.NewTemplateService(internal.DB, store, logger)
	historyService := services.NewHistoryService(internal.DB, logger)

	var converter generate.Converter
	if cfg.Gotenberg.URL != "" {
		pdfService, err := services.NewPDFService(cfg.Gotenberg.URL, cfg.Gotenberg.Timeout, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize Gotenberg client")
		}
		converter = pdfService
	}

	engine := generate.New(templateService, catalogService, store, historyService, generate.Options{
		Workers:   cfg.Generate.WorkerLimit,
		Converter: converter,
		Logger:    logger,
	})

	var sweeper *services.OutputSweeper
	if cfg.Storage.Backend == "local" {
		sweeper = services.NewOutputSweeper(cfg.Storage.Dir, cfg.Storage.OutputRetention, logger)
		sweeper.Start()
	}

	router := handlers.NewRouter(cfg, &handlers.Handlers{
		Catalog:   catalogService,
		Templates: templateService,
		History:   historyService,
		Engine:    engine,
		Log:       logger,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	if sweeper != nil {
		sweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.Server.Environment == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Backend == "gcs" {
		return storage.NewGCSStore(ctx, cfg.Storage.BucketName, cfg.Storage.CredentialsPath)
	}
	return storage.NewLocalStore(cfg.Storage.Dir)
}
