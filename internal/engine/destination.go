package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"dukas-data/internal/model"
)

// Format is the file format written by a copy.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
)

// UUIDPlaceholder is replaced with a fresh random UUID for every part file.
const UUIDPlaceholder = "{uuid}"

// Destination describes where and how a copy writes its output.
type Destination struct {
	// Dir is the dataset root. Partition directories and flat files go under it.
	Dir    string
	Format Format
	// PartitionBy is empty (single file) or exactly symbol, year.
	PartitionBy []string
	// FilenamePattern is the part file name without extension; UUIDPlaceholder is expanded.
	FilenamePattern string
	Compression     string
	// Header and Delimiter apply to FormatCSV only.
	Header    bool
	Delimiter rune
	// OverwriteOrIgnore leaves an existing file with the same name untouched
	// instead of replacing it.
	OverwriteOrIgnore bool
}

func (d Destination) validate() error {
	if d.Dir == "" {
		return fmt.Errorf("destination: empty dir")
	}
	switch d.Format {
	case FormatParquet, FormatCSV:
	default:
		return fmt.Errorf("destination: unsupported format %q", d.Format)
	}
	if d.FilenamePattern == "" {
		return fmt.Errorf("destination: empty filename pattern")
	}
	if strings.ContainsAny(d.FilenamePattern, `/\`) {
		return fmt.Errorf("destination: filename pattern %q contains a path separator", d.FilenamePattern)
	}
	if len(d.PartitionBy) > 0 {
		if len(d.PartitionBy) != 2 || d.PartitionBy[0] != model.ColSymbol || d.PartitionBy[1] != model.ColYear {
			return fmt.Errorf("destination: unsupported partition columns %v (use: %s, %s)", d.PartitionBy, model.ColSymbol, model.ColYear)
		}
	}
	return nil
}

func (d Destination) partitioned() bool { return len(d.PartitionBy) > 0 }

// filename expands the pattern and appends the format and codec extensions.
func (d Destination) filename(codec Codec) string {
	name := strings.ReplaceAll(d.FilenamePattern, UUIDPlaceholder, uuid.NewString()) + "." + string(d.Format)
	if d.Format == FormatCSV {
		name += codec.Ext
	}
	return name
}

// partitionDir returns the directory a row lands in, relative to Dir.
func (d Destination) partitionDir(row model.Row) string {
	if !d.partitioned() {
		return ""
	}
	segs := make([]string, len(d.PartitionBy))
	for i, col := range d.PartitionBy {
		var v string
		switch col {
		case model.ColSymbol:
			v = row.Symbol
		case model.ColYear:
			v = row.Year
		}
		segs[i] = col + "=" + EscapePathValue(v)
	}
	return filepath.Join(segs...)
}

const escapedChars = "\"#%'*/:=?\\[]^{}<>|"

// EscapePathValue percent-encodes bytes that are unsafe in a single path
// segment, in the hive partition style (%XX, upper-case hex).
func EscapePathValue(s string) string {
	if s == "." || s == ".." {
		return strings.ReplaceAll(s, ".", "%2E")
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == 0x7f || strings.IndexByte(escapedChars, c) >= 0 {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
