package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"repeatcal/config"
	"repeatcal/recurrence"
	"repeatcal/server"
	"repeatcal/storage"
	"repeatcal/storage/memory"
	"repeatcal/storage/postgres"
)

func main() {
	cfg := config.New()
	logger := newLogger(cfg.LogLevel)

	store, err := newStorage(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to set up storage", "error", err)
		os.Exit(1)
	}

	engine := recurrence.NewEngineWithConfig(recurrence.EngineConfig{
		DefaultEndDate: cfg.RepeatEndDate,
		MaxSteps:       cfg.RepeatMaxSteps,
	})

	router := server.NewRouter(store, engine, logger)

	logger.Info("starting server",
		"addr", cfg.ListenAddr,
		"default_end_date", cfg.RepeatEndDate)
	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func newStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.PostgresDSN == "" {
		logger.Info("no POSTGRES_DSN set, using in-memory storage")
		return memory.New(), nil
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	store := postgres.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	logger.Info("using postgres storage")
	return store, nil
}
