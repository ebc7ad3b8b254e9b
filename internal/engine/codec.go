package engine

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
	"github.com/pierrec/lz4/v4"
)

// Codec is a named compression scheme. Parquet sinks compress pages with
// Parquet; CSV sinks wrap the whole file with Stream.
type Codec struct {
	Name    string
	Ext     string
	Parquet compress.Codec
	Stream  func(io.Writer) (io.WriteCloser, error)
}

var codecs = map[string]Codec{
	"zstd": {
		Name:    "zstd",
		Ext:     ".zst",
		Parquet: &parquet.Zstd,
		Stream: func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w)
		},
	},
	"gzip": {
		Name:    "gzip",
		Ext:     ".gz",
		Parquet: &parquet.Gzip,
		Stream: func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriter(w), nil
		},
	},
	"snappy": {
		Name:    "snappy",
		Ext:     ".sz",
		Parquet: &parquet.Snappy,
		Stream: func(w io.Writer) (io.WriteCloser, error) {
			return s2.NewWriter(w, s2.WriterSnappyCompat()), nil
		},
	},
	"lz4": {
		Name:    "lz4",
		Ext:     ".lz4",
		Parquet: &parquet.Lz4Raw,
		Stream: func(w io.Writer) (io.WriteCloser, error) {
			return lz4.NewWriter(w), nil
		},
	},
	"brotli": {
		Name:    "brotli",
		Ext:     ".br",
		Parquet: &parquet.Brotli,
		Stream: func(w io.Writer) (io.WriteCloser, error) {
			return brotli.NewWriter(w), nil
		},
	},
	"uncompressed": {
		Name:    "uncompressed",
		Parquet: &parquet.Uncompressed,
		Stream: func(w io.Writer) (io.WriteCloser, error) {
			return nopWriteCloser{w}, nil
		},
	},
}

var codecAliases = map[string]string{
	"zst":     "zstd",
	"gz":      "gzip",
	"lz4_raw": "lz4",
	"none":    "uncompressed",
	"":        "uncompressed",
}

// LookupCodec resolves a compression name (case-insensitive).
func LookupCodec(name string) (Codec, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := codecAliases[key]; ok {
		key = alias
	}
	c, ok := codecs[key]
	if !ok {
		return Codec{}, fmt.Errorf("%w %q (use: %s)", ErrUnsupportedCodec, name, strings.Join(CodecNames(), ", "))
	}
	return c, nil
}

// CodecNames lists the registered codec names.
func CodecNames() []string {
	names := make([]string, 0, len(codecs))
	for n := range codecs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
