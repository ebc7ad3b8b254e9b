package app

import (
	"fmt"
	"log/slog"

	"dukas-data/internal/build"
	"dukas-data/internal/extract"
)

// CreateTasks discovers source files and builds one task per file.
func CreateTasks(cfg *Config) ([]extract.Task, error) {
	sources, err := build.Discover(cfg.InputDir, cfg.Filter())
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no <symbol>_<timeframe>.csv files in %s", cfg.InputDir)
	}
	slog.Info("discovered sources", "dir", cfg.InputDir, "count", len(sources))
	return build.Tasks(sources, cfg.Window(), extract.Modifier(cfg.Modifier), cfg.Options()), nil
}
