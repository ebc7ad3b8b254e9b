package extract

import (
	"errors"
	"fmt"

	"dukas-data/internal/engine"
)

var (
	// ErrUnsupportedOutputType is returned, before any I/O, for an output_type outside {parquet, csv}.
	ErrUnsupportedOutputType = errors.New("unsupported output type")
	// ErrInvalidOptions is returned when an option value has the wrong type.
	ErrInvalidOptions = errors.New("invalid options")
	// ErrInvalidTask is returned for a task missing its symbol or with an unknown modifier.
	ErrInvalidTask = errors.New("invalid task")

	// ErrSchemaMismatch is returned when the source does not have the six bar columns
	// or a value does not parse.
	ErrSchemaMismatch = engine.ErrSchemaMismatch
	// ErrSourceNotFound is returned when input_path is empty, missing or not a regular file.
	ErrSourceNotFound = engine.ErrSourceNotFound
)

// ExecutionError wraps a failure raised by the bulk copy. The engine error is
// kept as is and returned by Unwrap.
type ExecutionError struct {
	Symbol    string
	Timeframe string
	Err       error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("extract %s %s: %v", e.Symbol, e.Timeframe, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// classify keeps input errors recognizable and wraps everything else as an ExecutionError.
func classify(t Task, err error) error {
	if errors.Is(err, ErrSchemaMismatch) || errors.Is(err, ErrSourceNotFound) {
		return fmt.Errorf("extract %s %s: %w", t.Symbol, t.Timeframe, err)
	}
	return &ExecutionError{Symbol: t.Symbol, Timeframe: t.Timeframe, Err: err}
}
