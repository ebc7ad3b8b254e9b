package engine

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "src.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func readAll(t *testing.T, path string) (int, error) {
	t.Helper()
	br, err := openSource(CSVSource{Path: path})
	if err != nil {
		return 0, err
	}
	defer br.Close()
	n := 0
	for {
		_, err := br.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}

func TestReaderHeader(t *testing.T) {
	tests := []struct {
		name string
		body string
		rows int
	}{
		{"dukascopy header", "Time,Open,High,Low,Close,Volume\n2024-01-01 00:00:00,1,2,0.5,1.5,10\n", 1},
		{"lower case header", "time,open,high,low,close,volume\n2024-01-01 00:00:00,1,2,0.5,1.5,10\n", 1},
		{"bom", "\ufeffTime,Open,High,Low,Close,Volume\n2024-01-01 00:00:00,1,2,0.5,1.5,10\n", 1},
		{"no header", "2024-01-01 00:00:00,1,2,0.5,1.5,10\n2024-01-01 01:00:00,1,2,0.5,1.5,10\n", 2},
		{"header only", "Time,Open,High,Low,Close,Volume\n", 0},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := readAll(t, writeFile(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.rows, n)
		})
	}
}

func TestReaderBindsValues(t *testing.T) {
	br, err := openSource(CSVSource{Path: writeFile(t, "2024-01-01 00:00:00, 1.5,2,0.5,1.25,10.75\n")})
	require.NoError(t, err)
	defer br.Close()
	bar, err := br.Next()
	require.NoError(t, err)
	assert.True(t, bar.Time.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1.5, bar.Open)
	assert.Equal(t, 2.0, bar.High)
	assert.Equal(t, 0.5, bar.Low)
	assert.Equal(t, 1.25, bar.Close)
	assert.Equal(t, 10.75, bar.Volume)
}

func TestReaderSchemaMismatch(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		column string
	}{
		{"seven columns", "Time,Open,High,Low,Close,Volume,Spread\n", ""},
		{"renamed column", "Time,Open,High,Low,Close,Vol\n", "volume"},
		{"short row", "2024-01-01 00:00:00,1,2,0.5,1.5,10\n2024-01-01 01:00:00,1,2\n", ""},
		{"bad time", "Time,Open,High,Low,Close,Volume\nnot-a-time,1,2,0.5,1.5,10\n", "time"},
		{"bad double", "2024-01-01 00:00:00,1,2,0.5,1.5,ten\n", "volume"},
		{"bad quoting", "2024-01-01 00:00:00,\"1,2,0.5,1.5,10\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAll(t, writeFile(t, tt.body))
			require.ErrorIs(t, err, ErrSchemaMismatch)
			var se *SchemaError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.column, se.Column)
		})
	}
}

func TestReaderSourceNotFound(t *testing.T) {
	_, err := openSource(CSVSource{Path: filepath.Join(t.TempDir(), "nope.csv")})
	assert.ErrorIs(t, err, ErrSourceNotFound)

	_, err = openSource(CSVSource{Path: t.TempDir()})
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestScanMaxTime(t *testing.T) {
	body := "2024-01-01 05:00:00,1,1,1,1,1\n2024-01-01 09:00:00,1,1,1,1,1\n2024-01-01 07:00:00,1,1,1,1,1\n"
	max, ok, err := scanMaxTime(context.Background(), CSVSource{Path: writeFile(t, body)})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, max.Equal(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)))

	_, ok, err = scanMaxTime(context.Background(), CSVSource{Path: writeFile(t, "Time,Open,High,Low,Close,Volume\n")})
	require.NoError(t, err)
	assert.False(t, ok)
}
