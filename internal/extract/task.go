package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Modifier adjusts which source rows qualify.
type Modifier string

const (
	ModifierNone Modifier = ""
	// ModifierSkipLast drops rows at the latest timestamp of the source file,
	// usually an incomplete trailing bar.
	ModifierSkipLast Modifier = "skiplast"
)

// Task describes one source file to extract. It is a plain value and can be
// serialized to hand it to another process.
type Task struct {
	Symbol    string `json:"symbol" validate:"required"`
	Timeframe string `json:"timeframe"`
	InputPath string `json:"input_path"`
	// WindowStart is inclusive, WindowEnd exclusive. Both are timestamp literals.
	WindowStart string   `json:"window_start"`
	WindowEnd   string   `json:"window_end"`
	Modifier    Modifier `json:"modifier" validate:"omitempty,oneof=skiplast"`
	Options     Options  `json:"options"`
}

// NewTask builds a Task from a loose option map, see ParseOptions.
func NewTask(symbol, timeframe, inputPath, windowStart, windowEnd, modifier string, options map[string]any) (Task, error) {
	opts, err := ParseOptions(options)
	if err != nil {
		return Task{}, err
	}
	return Task{
		Symbol:      symbol,
		Timeframe:   timeframe,
		InputPath:   inputPath,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Modifier:    Modifier(strings.ToLower(strings.TrimSpace(modifier))),
		Options:     opts,
	}, nil
}

func (t Task) skipLast() bool {
	return t.Modifier == ModifierSkipLast || t.Options.OmitOpenCandles
}

var validate = validator.New()

// Validate checks the task and its options without touching the filesystem.
func (t Task) Validate() error {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	for _, fe := range verrs {
		if fe.StructField() == "OutputType" {
			return fmt.Errorf("%w %q (use: %s, %s)", ErrUnsupportedOutputType, t.Options.OutputType, OutputParquet, OutputCSV)
		}
	}
	fe := verrs[0]
	if fe.Namespace() != "" && strings.HasPrefix(fe.Namespace(), "Task.Options.") {
		return fmt.Errorf("%w: %s failed %q", ErrInvalidOptions, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %s failed %q", ErrInvalidTask, fe.Field(), fe.Tag())
}
