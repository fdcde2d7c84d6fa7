package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bilgisen/gazette/internal/ai"
	"github.com/bilgisen/gazette/internal/api"
	"github.com/bilgisen/gazette/internal/cache"
	"github.com/bilgisen/gazette/internal/config"
	"github.com/bilgisen/gazette/internal/gazette"
	"github.com/bilgisen/gazette/internal/logger"
	"github.com/bilgisen/gazette/internal/middleware"
	"github.com/bilgisen/gazette/internal/session"
	"github.com/bilgisen/gazette/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type persistence interface {
	gazette.Persistence
	io.Closer
}

func main() {
	// Load and validate configuration
	cfg := config.Load()

	output := cfg.LogFile
	if output == "" {
		output = "stdout"
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: output,
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Str("backend", cfg.StorageBackend).Msg("Starting application...")

	backend, err := openPersistence(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer func() {
		log.Info().Msg("Closing storage...")
		if err := backend.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing storage")
		}
	}()

	opts := []gazette.Option{
		gazette.WithNamespace(cfg.Namespace),
		gazette.WithNotificationDelay(cfg.NotificationTTL),
	}
	var summarizer api.Summarizer
	if cfg.AIApiKey != "" {
		client := ai.NewGeminiClient(cfg.AIApiKey, cfg.AIModel, ai.WithTimeout(cfg.AITimeoutDuration()))
		opts = append(opts, gazette.WithRefiner(client))
		summarizer = client
	} else {
		log.Warn().Msg("AI_API_KEY not set, editorial assistant disabled")
	}

	store := gazette.NewStore(backend, opts...)
	defer store.Close()

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	err = store.LoadInitial(loadCtx)
	cancelLoad()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load gazettes")
	}

	sessions := session.NewManager(store)

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.AITimeoutDuration() + cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New()) // Recover from panics
	app.Use(middleware.RequestLogger())

	api.SetupRoutes(app, api.NewHandlers(cfg, store, sessions, summarizer))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go pruneSessions(ctx, sessions, cfg.SessionIdleTimeout)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Create a deadline for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func openPersistence(ctx context.Context, cfg *config.Config) (persistence, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		return storage.NewStorage(cfg.StoragePath)
	case config.BackendMemory:
		return cache.NewMemoryStore(), nil
	case config.BackendRedis:
		return cache.NewRedisStore(cfg)
	case config.BackendR2:
		return storage.NewR2Store(ctx, cfg)
	case config.BackendSQLite:
		return storage.NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// pruneSessions drops tabs that have been idle longer than idle
func pruneSessions(ctx context.Context, sessions *session.Manager, idle time.Duration) {
	interval := idle / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Prune(idle); n > 0 {
				logger.Get().Info().Int("pruned", n).Int("active", sessions.Len()).Msg("Idle sessions pruned")
			}
		}
	}
}
