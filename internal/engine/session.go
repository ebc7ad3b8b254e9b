package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"dukas-data/internal/model"
)

// checkEvery is how many source rows are read between context checks.
const checkEvery = 4096

// CopyStats reports what a copy published.
type CopyStats struct {
	Rows    int64
	Files   []string
	Ignored []string
}

// Session is an isolated, in-memory execution context. It owns every file
// handle and staging area opened by its copies and releases them on Close.
// Sessions share no state; open one per unit of work.
type Session struct {
	log *slog.Logger

	mu      sync.Mutex
	closed  bool
	sources map[io.Closer]struct{}
	stages  map[*stage]struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Open creates a new session.
func Open(opts ...Option) *Session {
	s := &Session{
		log:     slog.Default(),
		sources: make(map[io.Closer]struct{}),
		stages:  make(map[*stage]struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Close releases everything the session still holds. Unpublished output is removed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	var first error
	for c := range s.sources {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	for st := range s.stages {
		if err := st.discard(); err != nil && first == nil {
			first = err
		}
	}
	s.sources, s.stages = nil, nil
	return first
}

func (s *Session) acquire(c io.Closer, st *stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if c != nil {
		s.sources[c] = struct{}{}
	}
	if st != nil {
		s.stages[st] = struct{}{}
	}
	return nil
}

func (s *Session) release(c io.Closer, st *stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if c != nil {
		delete(s.sources, c)
	}
	if st != nil {
		delete(s.stages, st)
	}
}

// Copy runs q and writes the result to dst as one all-or-nothing operation:
// parts are staged and only published once every row has been written.
// On error nothing is published.
func (s *Session) Copy(ctx context.Context, q Query, dst Destination) (CopyStats, error) {
	var stats CopyStats
	if err := s.acquire(nil, nil); err != nil {
		return stats, err
	}
	if err := dst.validate(); err != nil {
		return stats, err
	}
	codec, err := LookupCodec(dst.Compression)
	if err != nil {
		return stats, err
	}
	where, err := q.bind(ctx)
	if err != nil {
		return stats, err
	}

	src, err := openSource(q.Source)
	if err != nil {
		return stats, err
	}
	if err := s.acquire(src, nil); err != nil {
		src.Close()
		return stats, err
	}
	defer func() {
		s.release(src, nil)
		src.Close()
	}()

	st, err := newStage(dst.Dir)
	if err != nil {
		return stats, err
	}
	if err := s.acquire(nil, st); err != nil {
		st.discard()
		return stats, err
	}
	defer func() {
		s.release(nil, st)
		if err := st.discard(); err != nil {
			s.log.Warn("could not remove staging dir", "dir", st.dir, "error", err)
		}
	}()

	parts := make(map[string]partWriter)
	writerFor := func(row model.Row) (partWriter, error) {
		rel := dst.partitionDir(row)
		if w, ok := parts[rel]; ok {
			return w, nil
		}
		tmp := st.nextPath()
		w, err := newPartWriter(tmp, dst, codec, dst.partitioned())
		if err != nil {
			return nil, err
		}
		st.add(tmp, filepath.Join(dst.Dir, rel, dst.filename(codec)), w)
		parts[rel] = w
		return w, nil
	}
	if !dst.partitioned() {
		// a single-file copy always produces its file, even with no rows
		if _, err := writerFor(model.Row{}); err != nil {
			return stats, err
		}
	}

	for n := 0; ; n++ {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}
		bar, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, err
		}
		if !where.match(bar.Time) {
			continue
		}
		row := q.Select.project(bar)
		w, err := writerFor(row)
		if err != nil {
			return stats, err
		}
		if err := w.Write(row); err != nil {
			return stats, fmt.Errorf("write row: %w", err)
		}
		stats.Rows++
	}

	if err := st.closeWriters(); err != nil {
		return stats, err
	}
	stats.Files, stats.Ignored, err = st.commit(dst.OverwriteOrIgnore, s.log)
	if err != nil {
		return stats, err
	}
	s.log.Debug("copy done", "rows", stats.Rows, "files", len(stats.Files), "ignored", len(stats.Ignored))
	return stats, nil
}
