package main

import (
	"context"
	"log/slog"
	"os"

	"dukas-data/internal/app"
	"dukas-data/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	a, err := InitializeApp()
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	cfg := a.Config

	slog.Info("input dir", "dir", cfg.InputDir, "symbols", cfg.Symbols, "timeframes", cfg.Timeframes)
	slog.Info("output dir", "dir", cfg.OutputDir, "format", cfg.OutputType, "compression", cfg.Compression)

	if err := app.RunFlow(context.Background(), cfg, a.Pool); err != nil {
		slog.Error("build failed", "error", err)
		os.Exit(1)
	}
	slog.Info("build done")
}
