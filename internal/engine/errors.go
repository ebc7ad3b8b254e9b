package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaMismatch is returned when a source file does not bind to the fixed bar schema.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrSourceNotFound is returned when the source path is missing or not a readable file.
	ErrSourceNotFound = errors.New("source not found")
	// ErrSessionClosed is returned by operations on a closed Session.
	ErrSessionClosed = errors.New("engine: session closed")
	// ErrUnsupportedCodec is returned for compression names with no registered codec.
	ErrUnsupportedCodec = errors.New("unsupported compression codec")
	// ErrInvalidTimestamp is returned when a timestamp literal cannot be parsed.
	ErrInvalidTimestamp = errors.New("invalid timestamp literal")
)

// SchemaError describes where a source file diverged from the schema.
// It matches ErrSchemaMismatch with errors.Is.
type SchemaError struct {
	Path   string
	Line   int
	Column string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("%s: %s line %d", ErrSchemaMismatch, e.Path, e.Line)
	if e.Column != "" {
		msg += " column " + e.Column
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchemaMismatch }

func (e *SchemaError) Unwrap() error { return e.Err }
