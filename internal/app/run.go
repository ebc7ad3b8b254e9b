package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"dukas-data/internal/build"
)

// RunFlow runs one build: discover → extract in parallel → report.
// SIGINT/SIGTERM stop new tasks from starting.
func RunFlow(ctx context.Context, cfg *Config, pool *build.Pool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tasks, err := CreateTasks(cfg)
	if err != nil {
		return err
	}
	slog.Info("build start", "tasks", len(tasks), "output_type", cfg.OutputType, "partition", cfg.Partition,
		"compression", cfg.Compression, "output_dir", cfg.OutputDir, "after", cfg.After, "until", cfg.Until, "dry_run", cfg.DryRun)

	summary := pool.RunParallel(ctx, tasks)
	if !cfg.DryRun {
		if err := build.WriteRunReport(cfg.OutputDir, summary); err != nil {
			slog.Warn("could not write run report", "error", err)
		}
	}
	if ctx.Err() != nil {
		return fmt.Errorf("build interrupted: %w", context.Cause(ctx))
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d tasks failed", summary.Failed, len(tasks))
	}
	return nil
}
