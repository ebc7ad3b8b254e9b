package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"

	"dukas-data/internal/model"
)

const sourceHeader = "Time,Open,High,Low,Close,Volume"

// hourlyRows returns n bars one hour apart starting at start.
func hourlyRows(start time.Time, n int) []string {
	rows := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		rows = append(rows, fmt.Sprintf("%s,1.1,1.2,1.0,1.15,%d", ts.Format("2006-01-02 15:04:05"), 100+i))
	}
	return rows
}

func writeSource(t *testing.T, dir, name string, rows []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	body := sourceHeader + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func newTask(input, outDir string) Task {
	opts := DefaultOptions()
	opts.OutputDir = outDir
	return Task{
		Symbol:      "EURUSD",
		Timeframe:   "1h",
		InputPath:   input,
		WindowStart: "2024-01-01T00:00",
		WindowEnd:   "2024-01-01T12:00",
		Options:     opts,
	}
}

// outputFiles lists regular files under root, skipping staging dirs.
func outputFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && strings.HasPrefix(d.Name(), ".staging-") {
			t.Errorf("staging dir left behind: %s", path)
			return filepath.SkipDir
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func readParquetRows(t *testing.T, files []string) []model.PartitionRow {
	t.Helper()
	var all []model.PartitionRow
	for _, f := range files {
		rows, err := parquet.ReadFile[model.PartitionRow](f)
		require.NoError(t, err)
		all = append(all, rows...)
	}
	return all
}
