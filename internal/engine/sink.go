package engine

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"dukas-data/internal/model"
)

const parquetBatch = 1024

// partWriter writes one staged part file.
type partWriter interface {
	Write(row model.Row) error
	Close() error
	Rows() int64
}

// newPartWriter creates a part file at path. partitioned selects the row shape:
// inside a partition the partition columns are carried by the directory names.
func newPartWriter(path string, dst Destination, codec Codec, partitioned bool) (partWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("create part: %w", err)
	}
	switch dst.Format {
	case FormatParquet:
		if partitioned {
			return newParquetPart(f, codec, model.Row.Partition), nil
		}
		return newParquetPart(f, codec, func(r model.Row) model.Row { return r }), nil
	case FormatCSV:
		w, err := newCSVPart(f, dst, codec, partitioned)
		if err != nil {
			f.Close()
			return nil, err
		}
		return w, nil
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported format %q", dst.Format)
	}
}

type parquetPart[T any] struct {
	f    *os.File
	w    *parquet.GenericWriter[T]
	conv func(model.Row) T
	buf  []T
	rows int64
}

func newParquetPart[T any](f *os.File, codec Codec, conv func(model.Row) T) *parquetPart[T] {
	return &parquetPart[T]{
		f:    f,
		w:    parquet.NewGenericWriter[T](f, parquet.Compression(codec.Parquet)),
		conv: conv,
		buf:  make([]T, 0, parquetBatch),
	}
}

func (p *parquetPart[T]) Write(row model.Row) error {
	p.buf = append(p.buf, p.conv(row))
	p.rows++
	if len(p.buf) == cap(p.buf) {
		return p.flush()
	}
	return nil
}

func (p *parquetPart[T]) flush() error {
	if len(p.buf) == 0 {
		return nil
	}
	if _, err := p.w.Write(p.buf); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	p.buf = p.buf[:0]
	return nil
}

func (p *parquetPart[T]) Close() error {
	err := p.flush()
	if cerr := p.w.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close parquet writer: %w", cerr)
	}
	if cerr := p.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func (p *parquetPart[T]) Rows() int64 { return p.rows }

type csvPart struct {
	f           *os.File
	z           interface{ Close() error }
	w           *csv.Writer
	partitioned bool
	rec         []string
	rows        int64
}

func newCSVPart(f *os.File, dst Destination, codec Codec, partitioned bool) (*csvPart, error) {
	z, err := codec.Stream(f)
	if err != nil {
		return nil, fmt.Errorf("%s stream: %w", codec.Name, err)
	}
	w := csv.NewWriter(z)
	if dst.Delimiter != 0 {
		w.Comma = dst.Delimiter
	}
	p := &csvPart{f: f, z: z, w: w, partitioned: partitioned}
	if dst.Header {
		header := model.RowColumns
		if partitioned {
			header = model.PartitionRowColumns
		}
		if err := w.Write(header); err != nil {
			z.Close()
			f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	return p, nil
}

func (p *csvPart) Write(row model.Row) error {
	p.rec = p.rec[:0]
	if !p.partitioned {
		p.rec = append(p.rec, row.Symbol, row.Timeframe, row.Year)
	} else {
		p.rec = append(p.rec, row.Timeframe)
	}
	p.rec = append(p.rec,
		FormatTimestamp(row.Time),
		floatStr(row.Open),
		floatStr(row.High),
		floatStr(row.Low),
		floatStr(row.Close),
		floatStr(row.Volume),
	)
	p.rows++
	return p.w.Write(p.rec)
}

func (p *csvPart) Close() error {
	p.w.Flush()
	err := p.w.Error()
	if cerr := p.z.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close compressor: %w", cerr)
	}
	if cerr := p.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func (p *csvPart) Rows() int64 { return p.rows }

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
