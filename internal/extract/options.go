package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// OutputType selects the output file format.
type OutputType string

const (
	OutputParquet OutputType = "parquet"
	OutputCSV     OutputType = "csv"
)

// Option keys accepted by ParseOptions.
const (
	KeyOutputType      = "output_type"
	KeyPartition       = "partition"
	KeyCompression     = "compression"
	KeyOutputDir       = "output_dir"
	KeyDryRun          = "dry_run"
	KeyOmitOpenCandles = "omit_open_candles"
)

// Defaults.
const (
	DefaultOutputType  = OutputParquet
	DefaultCompression = "zstd"
	DefaultOutputDir   = "./temp/parquet"
)

// Options controls how a task is written.
type Options struct {
	OutputType OutputType `json:"output_type" validate:"oneof=parquet csv"`
	// Partition only applies to csv; parquet output is always partitioned.
	Partition   bool   `json:"partition"`
	// Compression names a codec; empty means uncompressed.
	Compression string `json:"compression"`
	OutputDir   string `json:"output_dir" validate:"required"`
	DryRun      bool   `json:"dry_run"`
	// OmitOpenCandles is the legacy spelling of the skiplast modifier.
	OmitOpenCandles bool `json:"omit_open_candles"`
}

// DefaultOptions returns parquet output, zstd compression, under ./temp/parquet.
func DefaultOptions() Options {
	return Options{
		OutputType:  DefaultOutputType,
		Compression: DefaultCompression,
		OutputDir:   DefaultOutputDir,
	}
}

// ParseOptions converts a loosely typed option map into Options, filling defaults.
// Unknown keys are ignored. Bools may be given as bool, string or number.
func ParseOptions(m map[string]any) (Options, error) {
	o := DefaultOptions()
	for k, v := range m {
		var err error
		switch k {
		case KeyOutputType:
			s, ok := v.(string)
			if !ok {
				return o, fmt.Errorf("%w %v", ErrUnsupportedOutputType, v)
			}
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				o.OutputType = OutputType(s)
			}
		case KeyPartition:
			o.Partition, err = asBool(k, v)
		case KeyCompression:
			var s string
			if s, err = asString(k, v); err == nil && s != "" {
				o.Compression = s
			}
		case KeyOutputDir:
			var s string
			if s, err = asString(k, v); err == nil && s != "" {
				o.OutputDir = s
			}
		case KeyDryRun:
			o.DryRun, err = asBool(k, v)
		case KeyOmitOpenCandles:
			o.OmitOpenCandles, err = asBool(k, v)
		}
		if err != nil {
			return o, err
		}
	}
	return o, nil
}

func asString(key string, v any) (string, error) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidOptions, key, v)
	}
}

func asBool(key string, v any) (bool, error) {
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	case string:
		if strings.TrimSpace(b) == "" {
			return false, nil
		}
		r, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, fmt.Errorf("%w: %s: %v", ErrInvalidOptions, key, err)
		}
		return r, nil
	case int:
		return b != 0, nil
	case int64:
		return b != 0, nil
	case float64:
		return b != 0, nil
	default:
		return false, fmt.Errorf("%w: %s must be a bool, got %T", ErrInvalidOptions, key, v)
	}
}
