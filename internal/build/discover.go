package build

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dukas-data/internal/extract"
)

// Source is one raw bar file found in the input dir.
type Source struct {
	Symbol    string
	Timeframe string
	Path      string
}

// Filter restricts discovery. Empty lists match everything; matching is case-insensitive.
type Filter struct {
	Symbols    []string
	Timeframes []string
}

func (f Filter) match(s Source) bool {
	return matchAny(f.Symbols, s.Symbol) && matchAny(f.Timeframes, s.Timeframe)
}

func matchAny(list []string, v string) bool {
	if len(list) == 0 {
		return true
	}
	for _, x := range list {
		if strings.EqualFold(strings.TrimSpace(x), v) {
			return true
		}
	}
	return false
}

// Discover returns every <symbol>_<timeframe>.csv directly under dir, sorted by path.
// The name is split at the last underscore; files without one are skipped.
func Discover(dir string, f Filter) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var out []Source
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		i := strings.LastIndexByte(stem, '_')
		if i <= 0 || i == len(stem)-1 {
			continue
		}
		s := Source{Symbol: stem[:i], Timeframe: stem[i+1:], Path: filepath.Join(dir, e.Name())}
		if f.match(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Window is the [After, Until) range applied to every task.
type Window struct {
	After string
	Until string
}

// Tasks turns sources into one task each, all sharing window, modifier and options.
func Tasks(sources []Source, w Window, modifier extract.Modifier, opts extract.Options) []extract.Task {
	tasks := make([]extract.Task, 0, len(sources))
	for _, s := range sources {
		tasks = append(tasks, extract.Task{
			Symbol:      s.Symbol,
			Timeframe:   s.Timeframe,
			InputPath:   s.Path,
			WindowStart: w.After,
			WindowEnd:   w.Until,
			Modifier:    modifier,
			Options:     opts,
		})
	}
	return tasks
}
