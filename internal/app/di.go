package app

import (
	"log/slog"
	"os"

	"dukas-data/internal/build"
	"dukas-data/internal/extract"
	"dukas-data/internal/slogx"
)

// ProvideConfig loads config from environment (for Wire).
func ProvideConfig() (*Config, error) {
	return LoadConfig()
}

// ProvideLogger builds the process logger from config and installs it as slog default (for Wire).
func ProvideLogger(cfg *Config) *slog.Logger {
	l := slogx.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(l)
	return l
}

// ProvideExecutor creates the task executor (for Wire).
func ProvideExecutor(logger *slog.Logger) *extract.Executor {
	return extract.NewExecutor(logger)
}

// ProvidePool wires the executor into a worker pool sized from config (for Wire).
func ProvidePool(cfg *Config, ex *extract.Executor) *build.Pool {
	return &build.Pool{Run: ex.Run, Workers: cfg.Workers, LogLevel: cfg.LogLevel, LogFormat: cfg.LogFormat}
}
