package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"camelia/internal/catalog"
	"camelia/internal/checkout"
	"camelia/internal/config"
	"camelia/internal/database"
	"camelia/internal/events"
	"camelia/internal/handler"
	"camelia/internal/router"
	"camelia/internal/session"
	"camelia/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger, os.Stdout)
	logger.Info().Msg("starting camelia storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize slot storage
	st, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	// Initialize product source with S3 and local fallback
	fileSource := catalog.NewFileSource(cfg.Catalog.Path, logger)
	var primary catalog.Source

	if cfg.S3.Enabled {
		key := cfg.S3.Prefix + filepath.Base(cfg.Catalog.Path)
		s3Source, err := catalog.NewS3Source(ctx, cfg.S3.Bucket, cfg.S3.Region, key, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 source, falling back to local file system only")
		} else {
			primary = s3Source
		}
	} else {
		logger.Info().Msg("using local file system for the product list (S3 disabled)")
	}

	store := catalog.NewStore(catalog.NewFallbackSource(primary, fileSource, logger), logger)
	if err := store.Load(ctx); err != nil {
		// The storefront still serves carts and history without a catalogue.
		logger.Error().Err(err).Msg("catalog unavailable")
	}

	// Initialize checkout options
	options, err := checkout.LoadOptions(cfg.Checkout.OptionsPath)
	if err != nil {
		return fmt.Errorf("failed to load checkout options: %w", err)
	}

	// Initialize order event publisher
	publisher := events.NewNopPublisher()
	if cfg.Events.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic, logger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	sessions := session.NewManager(st, store, options, logger, session.WithPublisher(publisher))

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Product:  handler.NewProductHandler(store, logger),
		Session:  handler.NewSessionHandler(logger),
		Cart:     handler.NewCartHandler(store, logger),
		Checkout: handler.NewCheckoutHandler(options, logger),
		Order:    handler.NewOrderHandler(logger),
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	// Initialize router
	mux := router.New(handlers, sessions, metricsPath, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("storage", cfg.Storage.Driver).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// openStorage connects the configured slot storage backend. The returned function
// releases its connections.
func openStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (storage.Storage, func(), error) {
	switch cfg.Storage.Driver {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("using redis slot storage")
		return storage.NewRedis(client, cfg.Redis.KeyPrefix, logger), func() { client.Close() }, nil

	case "postgres":
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		pg := storage.NewPostgres(pool, logger)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to migrate slot storage: %w", err)
		}
		return pg, pool.Close, nil

	default:
		logger.Info().Msg("using in-memory slot storage")
		return storage.NewMemory(), func() {}, nil
	}
}
