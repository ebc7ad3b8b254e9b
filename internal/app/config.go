package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"dukas-data/internal/build"
	"dukas-data/internal/extract"
)

// EnvPrefix prefixes every variable, e.g. DUKAS_INPUT_DIR. The bare name (INPUT_DIR) is the fallback.
const EnvPrefix = "DUKAS"

// Config holds application configuration from env
type Config struct {
	InputDir        string   `envconfig:"INPUT_DIR" default:"data/dukascopy" validate:"required"`
	OutputDir       string   `envconfig:"OUTPUT_DIR" default:"./temp/parquet" validate:"required"`
	OutputType      string   `envconfig:"OUTPUT_TYPE" default:"parquet" validate:"oneof=parquet csv"`
	Partition       bool     `envconfig:"PARTITION" default:"false"`
	Compression     string   `envconfig:"COMPRESSION" default:"zstd"`
	DryRun          bool     `envconfig:"DRY_RUN" default:"false"`
	After           string   `envconfig:"AFTER" default:"1900-01-01"`
	Until           string   `envconfig:"UNTIL"` // empty → tomorrow, UTC
	Modifier        string   `envconfig:"MODIFIER" validate:"omitempty,oneof=skiplast"`
	OmitOpenCandles bool     `envconfig:"OMIT_OPEN_CANDLES" default:"false"`
	Symbols         []string `envconfig:"SYMBOLS"`
	Timeframes      []string `envconfig:"TIMEFRAMES"`
	Workers         int      `envconfig:"WORKERS" default:"0" validate:"gte=0"`
	LogLevel        string   `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"` // debug | info | warn | error
	LogFormat       string   `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
}

// LoadConfig reads config from environment and validates it.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	cfg.normalize(time.Now())
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) normalize(now time.Time) {
	c.OutputType = strings.ToLower(strings.TrimSpace(c.OutputType))
	c.Modifier = strings.ToLower(strings.TrimSpace(c.Modifier))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.Until == "" {
		c.Until = now.UTC().AddDate(0, 0, 1).Format("2006-01-02")
	}
}

// Options returns the per-task output options.
func (c *Config) Options() extract.Options {
	return extract.Options{
		OutputType:      extract.OutputType(c.OutputType),
		Partition:       c.Partition,
		Compression:     c.Compression,
		OutputDir:       c.OutputDir,
		DryRun:          c.DryRun,
		OmitOpenCandles: c.OmitOpenCandles,
	}
}

// Window returns the [After, Until) range applied to every file.
func (c *Config) Window() build.Window {
	return build.Window{After: c.After, Until: c.Until}
}

// Filter returns the discovery filter.
func (c *Config) Filter() build.Filter {
	return build.Filter{Symbols: c.Symbols, Timeframes: c.Timeframes}
}
