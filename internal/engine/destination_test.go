package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dukas-data/internal/model"
)

func TestEscapePathValue(t *testing.T) {
	for in, want := range map[string]string{
		"EURUSD":  "EURUSD",
		"EUR/USD": "EUR%2FUSD",
		`a\b`:     "a%5Cb",
		"x=y":     "x%3Dy",
		"100%":    "100%25",
		"tab\tc":  "tab%09c",
		"..":      "%2E%2E",
		"m1.5":    "m1.5",
	} {
		assert.Equal(t, want, EscapePathValue(in), in)
	}
}

func TestDestinationValidate(t *testing.T) {
	ok := Destination{Dir: "out", Format: FormatParquet, FilenamePattern: "part_{uuid}", PartitionBy: []string{"symbol", "year"}}
	assert.NoError(t, ok.validate())

	bad := []Destination{
		{Format: FormatParquet, FilenamePattern: "p"},
		{Dir: "out", Format: "orc", FilenamePattern: "p"},
		{Dir: "out", Format: FormatCSV},
		{Dir: "out", Format: FormatCSV, FilenamePattern: "a/b"},
		{Dir: "out", Format: FormatCSV, FilenamePattern: "p", PartitionBy: []string{"year"}},
	}
	for _, d := range bad {
		assert.Error(t, d.validate(), "%+v", d)
	}
}

func TestDestinationPaths(t *testing.T) {
	d := Destination{Dir: "out", Format: FormatCSV, FilenamePattern: "part_{uuid}", PartitionBy: []string{"symbol", "year"}}
	row := model.Row{Symbol: "EURUSD", Year: "2024", Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, filepath.Join("symbol=EURUSD", "year=2024"), d.partitionDir(row))

	zst, _ := LookupCodec("zstd")
	a, b := d.filename(zst), d.filename(zst)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^part_[0-9a-f-]{36}\.csv\.zst$`, a)

	d.Format = FormatParquet
	assert.Regexp(t, `^part_[0-9a-f-]{36}\.parquet$`, d.filename(zst))

	d.PartitionBy = nil
	assert.Equal(t, "", d.partitionDir(row))
}
