package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dukas-data/internal/model"
)

// Op is a comparison applied to the time column.
type Op int

const (
	// OpGE keeps rows with time >= value.
	OpGE Op = iota
	// OpLT keeps rows with time < value.
	OpLT
	// OpLTSourceMax keeps rows with time < max(time) over the whole unfiltered source.
	OpLTSourceMax
)

func (o Op) String() string {
	switch o {
	case OpGE:
		return ">="
	case OpLT, OpLTSourceMax:
		return "<"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Predicate is one condition on the time column. Value is a bound timestamp
// literal; it is parsed at execution time and never spliced into query text.
type Predicate struct {
	Op    Op
	Value string
}

// TimeAtLeast returns time >= literal.
func TimeAtLeast(literal string) Predicate { return Predicate{Op: OpGE, Value: literal} }

// TimeBefore returns time < literal.
func TimeBefore(literal string) Predicate { return Predicate{Op: OpLT, Value: literal} }

// TimeBeforeSourceMax returns time < (max time of the source).
func TimeBeforeSourceMax() Predicate { return Predicate{Op: OpLTSourceMax} }

// Projection binds the literal columns injected into every output row.
// year is always derived from the normalized time.
type Projection struct {
	Symbol    string
	Timeframe string
}

func (p Projection) project(bar model.SourceBar) model.Row {
	return model.Row{
		Symbol:    p.Symbol,
		Timeframe: p.Timeframe,
		Year:      yearOf(bar.Time),
		Time:      bar.Time,
		Open:      bar.Open,
		High:      bar.High,
		Low:       bar.Low,
		Close:     bar.Close,
		Volume:    bar.Volume,
	}
}

// Query is read → filter → project over one source file.
type Query struct {
	Source CSVSource
	Where  []Predicate
	Select Projection
}

// String renders the query with positional placeholders; Args lists their values.
func (q Query) String() string {
	var b strings.Builder
	b.WriteString("SELECT $1 AS symbol, $2 AS timeframe, year(time) AS year, time, open, high, low, close, volume FROM read_csv($3)")
	n := 4
	for i, p := range q.Where {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		if p.Op == OpLTSourceMax {
			b.WriteString("time < (SELECT max(time) FROM read_csv($3))")
			continue
		}
		fmt.Fprintf(&b, "time %s $%d", p.Op, n)
		n++
	}
	return b.String()
}

// Args returns the values bound to the placeholders of String.
func (q Query) Args() []string {
	args := []string{q.Select.Symbol, q.Select.Timeframe, q.Source.Path}
	for _, p := range q.Where {
		if p.Op != OpLTSourceMax {
			args = append(args, p.Value)
		}
	}
	return args
}

// filter is a Query's WHERE clause with every parameter resolved.
type filter struct {
	conds []func(time.Time) bool
}

func (f *filter) match(t time.Time) bool {
	for _, c := range f.conds {
		if !c(t) {
			return false
		}
	}
	return true
}

// bind parses the literal predicates and, if needed, scans the source once for its max time.
func (q Query) bind(ctx context.Context) (*filter, error) {
	f := &filter{}
	needMax := false
	for _, p := range q.Where {
		switch p.Op {
		case OpGE, OpLT:
			v, err := ParseTimestamp(p.Value)
			if err != nil {
				return nil, fmt.Errorf("bind time %s: %w", p.Op, err)
			}
			if p.Op == OpGE {
				f.conds = append(f.conds, func(t time.Time) bool { return !t.Before(v) })
			} else {
				f.conds = append(f.conds, func(t time.Time) bool { return t.Before(v) })
			}
		case OpLTSourceMax:
			needMax = true
		default:
			return nil, fmt.Errorf("unsupported predicate %s", p.Op)
		}
	}
	if needMax {
		max, ok, err := scanMaxTime(ctx, q.Source)
		if err != nil {
			return nil, err
		}
		if !ok {
			// max over an empty source is NULL; no row compares true against it
			f.conds = append(f.conds, func(time.Time) bool { return false })
		} else {
			f.conds = append(f.conds, func(t time.Time) bool { return t.Before(max) })
		}
	}
	return f, nil
}
