package engine

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"dukas-data/internal/model"
)

const utf8BOM = "\ufeff"

// CSVSource reads a raw bar file bound to the fixed six-column schema.
// An optional header row must name the schema columns in order (case-insensitive).
type CSVSource struct {
	Path string
}

// barReader streams SourceBars from one file.
type barReader struct {
	f       *os.File
	r       *csv.Reader
	path    string
	line    int
	pending []string
}

func openSource(src CSVSource) (*barReader, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, sourceError(src.Path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, sourceError(src.Path, err)
	}
	if st.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, src.Path)
	}

	r := csv.NewReader(bufio.NewReaderSize(f, 64*1024))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	br := &barReader{f: f, r: r, path: src.Path}
	if err := br.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return br, nil
}

func sourceError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %s: %v", ErrSourceNotFound, path, err)
	}
	return fmt.Errorf("open source %s: %w", path, err)
}

// readHeader consumes the header row if there is one. A first row whose time
// field parses as a timestamp is data and is kept for the first Next call.
func (br *barReader) readHeader() error {
	rec, err := br.read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	rec[0] = strings.TrimPrefix(rec[0], utf8BOM)
	if len(rec) != len(model.SourceColumns) {
		return br.schemaErr("", fmt.Sprintf("expected %d columns, got %d", len(model.SourceColumns), len(rec)), nil)
	}
	if _, err := ParseTimestamp(rec[0]); err == nil {
		br.pending = append([]string(nil), rec...)
		return nil
	}
	for i, name := range rec {
		if !strings.EqualFold(strings.TrimSpace(name), model.SourceColumns[i]) {
			return br.schemaErr(model.SourceColumns[i], fmt.Sprintf("header %q does not match", name), nil)
		}
	}
	return nil
}

func (br *barReader) read() ([]string, error) {
	rec, err := br.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	br.line++
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, br.schemaErr("", "malformed csv", err)
		}
		return nil, fmt.Errorf("read source %s: %w", br.path, err)
	}
	return rec, nil
}

// Next returns the next bar, or io.EOF when the file is exhausted.
func (br *barReader) Next() (model.SourceBar, error) {
	rec := br.pending
	br.pending = nil
	if rec == nil {
		var err error
		if rec, err = br.read(); err != nil {
			return model.SourceBar{}, err
		}
	}
	if len(rec) != len(model.SourceColumns) {
		return model.SourceBar{}, br.schemaErr("", fmt.Sprintf("expected %d columns, got %d", len(model.SourceColumns), len(rec)), nil)
	}

	var bar model.SourceBar
	t, err := ParseTimestamp(rec[0])
	if err != nil {
		return bar, br.schemaErr(model.ColTime, "not a TIMESTAMP", err)
	}
	bar.Time = t
	dst := [...]*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume}
	for i, p := range dst {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
		if err != nil {
			return bar, br.schemaErr(model.SourceColumns[i+1], "not a DOUBLE", err)
		}
		*p = v
	}
	return bar, nil
}

func (br *barReader) schemaErr(column, reason string, err error) error {
	return &SchemaError{Path: br.path, Line: br.line, Column: column, Reason: reason, Err: err}
}

func (br *barReader) Close() error {
	return br.f.Close()
}

// scanMaxTime makes one full pass over the source and returns its latest timestamp.
// ok is false for a file with no rows.
func scanMaxTime(ctx context.Context, src CSVSource) (max time.Time, ok bool, err error) {
	br, err := openSource(src)
	if err != nil {
		return time.Time{}, false, err
	}
	defer br.Close()
	for n := 0; ; n++ {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return time.Time{}, false, err
			}
		}
		bar, err := br.Next()
		if err == io.EOF {
			return max, ok, nil
		}
		if err != nil {
			return time.Time{}, false, err
		}
		if !ok || bar.Time.After(max) {
			max, ok = bar.Time, true
		}
	}
}
