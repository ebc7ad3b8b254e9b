package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFlow(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "dataset")
	body := "Time,Open,High,Low,Close,Volume\n" +
		"2024-01-01 00:00:00,1,2,0.5,1.5,10\n" +
		"2024-01-01 01:00:00,1,2,0.5,1.5,10\n"
	require.NoError(t, os.WriteFile(filepath.Join(in, "EURUSD_1h.csv"), []byte(body), 0644))

	cfg := &Config{InputDir: in, OutputDir: out, OutputType: "parquet", Compression: "zstd", After: "2024-01-01", Until: "2024-02-01"}
	logger := ProvideLogger(&Config{LogLevel: "error"})
	pool := ProvidePool(cfg, ProvideExecutor(logger))

	require.NoError(t, RunFlow(context.Background(), cfg, pool))
	assert.FileExists(t, filepath.Join(out, ".lastrun.success.json"))
	parts, err := filepath.Glob(filepath.Join(out, "symbol=EURUSD", "year=2024", "part_*.parquet"))
	require.NoError(t, err)
	assert.Len(t, parts, 1)
}

func TestRunFlowDryRun(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "dataset")
	require.NoError(t, os.WriteFile(filepath.Join(in, "EURUSD_1h.csv"), []byte("Time,Open,High,Low,Close,Volume\n"), 0644))

	cfg := &Config{InputDir: in, OutputDir: out, OutputType: "csv", Compression: "zstd", DryRun: true, After: "2024-01-01", Until: "2024-02-01"}
	pool := ProvidePool(cfg, ProvideExecutor(nil))
	require.NoError(t, RunFlow(context.Background(), cfg, pool))
	assert.NoDirExists(t, out)
}

func TestRunFlowReportsFailures(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "EURUSD_1h.csv"), []byte("a,b\n"), 0644))
	cfg := &Config{InputDir: in, OutputDir: t.TempDir(), OutputType: "parquet", Compression: "zstd", After: "2024-01-01", Until: "2024-02-01"}
	err := RunFlow(context.Background(), cfg, ProvidePool(cfg, ProvideExecutor(nil)))
	assert.ErrorContains(t, err, "1 of 1 tasks failed")
}

func TestRunFlowNoSources(t *testing.T) {
	cfg := &Config{InputDir: t.TempDir(), OutputDir: t.TempDir()}
	err := RunFlow(context.Background(), cfg, ProvidePool(cfg, ProvideExecutor(nil)))
	assert.ErrorContains(t, err, "no <symbol>_<timeframe>.csv files")
}
