package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"dukas-data/internal/engine"
)

// Result is the outcome kind of a successful Execute.
type Result int

const (
	// Written means the copy ran and its output is published.
	Written Result = iota + 1
	// Skipped means nothing was done on purpose (dry run).
	Skipped
)

func (r Result) String() string {
	switch r {
	case Written:
		return "written"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome is a Result plus what the copy produced.
type Outcome struct {
	Result  Result
	Mode    string
	Rows    int64
	Files   []string
	Ignored []string
}

// Executor runs tasks. It holds no per-task state and is safe for concurrent use.
type Executor struct {
	log *slog.Logger
}

// NewExecutor returns an Executor logging to log. A nil log follows slog.Default().
func NewExecutor(log *slog.Logger) *Executor {
	return &Executor{log: log}
}

func (e *Executor) logger() *slog.Logger {
	if e.log == nil {
		return slog.Default()
	}
	return e.log
}

// Execute runs t and reports Written or Skipped. Failures are returned as
// errors and never as a Result.
func (e *Executor) Execute(ctx context.Context, t Task) (Result, error) {
	out, err := e.Run(ctx, t)
	if err != nil {
		return 0, err
	}
	return out.Result, nil
}

// Run is Execute with copy statistics.
func (e *Executor) Run(ctx context.Context, t Task) (Outcome, error) {
	if err := t.Validate(); err != nil {
		return Outcome{}, err
	}
	layout := SelectLayout(t)
	modifier := string(t.Modifier)
	if t.skipLast() {
		modifier = string(ModifierSkipLast)
	}
	log := e.logger().With("symbol", t.Symbol, "timeframe", t.Timeframe)

	q := BuildQuery(t)
	if t.Options.DryRun {
		log.Info("dry run", "source", t.InputPath, "mode", layout.Mode(), "modifier", modifier,
			"output_dir", t.Options.OutputDir, "from", t.WindowStart, "until", t.WindowEnd)
		log.Debug("dry run query", "query", q.String(), "args", q.Args())
		return Outcome{Result: Skipped, Mode: layout.Mode()}, nil
	}

	if err := os.MkdirAll(t.Options.OutputDir, 0755); err != nil {
		return Outcome{}, classify(t, fmt.Errorf("create output dir: %w", err))
	}

	sess := engine.Open(engine.WithLogger(log))
	defer sess.Close()

	stats, err := sess.Copy(ctx, q, layout.Destination(t.Options))
	if err != nil {
		return Outcome{}, classify(t, err)
	}
	log.Debug("extracted", "mode", layout.Mode(), "rows", stats.Rows, "files", len(stats.Files), "ignored", len(stats.Ignored))
	return Outcome{
		Result:  Written,
		Mode:    layout.Mode(),
		Rows:    stats.Rows,
		Files:   stats.Files,
		Ignored: stats.Ignored,
	}, nil
}

// BuildQuery composes read → window filter → optional skiplast → projection for t.
// Every task value is a bound parameter.
func BuildQuery(t Task) engine.Query {
	q := engine.Query{
		Source: engine.CSVSource{Path: t.InputPath},
		Where: []engine.Predicate{
			engine.TimeAtLeast(t.WindowStart),
			engine.TimeBefore(t.WindowEnd),
		},
		Select: engine.Projection{Symbol: t.Symbol, Timeframe: t.Timeframe},
	}
	if t.skipLast() {
		q.Where = append(q.Where, engine.TimeBeforeSourceMax())
	}
	return q
}

var defaultExecutor = NewExecutor(nil)

// Extract runs t with a default executor. It is the unit of work handed to a worker pool.
func Extract(ctx context.Context, t Task) (Result, error) {
	return defaultExecutor.Execute(ctx, t)
}
