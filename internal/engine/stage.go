package engine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// stagingPrefix marks in-flight copies. Dataset readers skip dot directories.
const stagingPrefix = ".staging-"

type stagedPart struct {
	tmp   string
	final string
	w     partWriter
}

// stage collects the part files of one copy until they are published together.
type stage struct {
	dir   string
	parts []*stagedPart
}

func newStage(root string) (*stage, error) {
	dir := filepath.Join(root, stagingPrefix+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &stage{dir: dir}, nil
}

func (s *stage) nextPath() string {
	return filepath.Join(s.dir, fmt.Sprintf("%06d.part", len(s.parts)+1))
}

func (s *stage) add(tmp, final string, w partWriter) {
	s.parts = append(s.parts, &stagedPart{tmp: tmp, final: final, w: w})
}

// closeWriters flushes every part. The first error is returned; all writers are closed.
func (s *stage) closeWriters() error {
	var first error
	for _, p := range s.parts {
		if p.w == nil {
			continue
		}
		if err := p.w.Close(); err != nil && first == nil {
			first = err
		}
		p.w = nil
	}
	return first
}

// commit publishes every staged part under its final name. On error the parts
// already published by this call are removed again.
func (s *stage) commit(overwriteOrIgnore bool, log *slog.Logger) (written, ignored []string, err error) {
	defer func() {
		if err != nil {
			unpublish(written, log)
			written, ignored = nil, nil
		}
	}()
	for _, p := range s.parts {
		if err := os.MkdirAll(filepath.Dir(p.final), 0755); err != nil {
			return written, ignored, fmt.Errorf("create partition dir: %w", err)
		}
		if !overwriteOrIgnore {
			if err := os.Rename(p.tmp, p.final); err != nil {
				return written, ignored, fmt.Errorf("publish %s: %w", p.final, err)
			}
			written = append(written, p.final)
			continue
		}
		ok, err := publishIfAbsent(p.tmp, p.final)
		if err != nil {
			return written, ignored, fmt.Errorf("publish %s: %w", p.final, err)
		}
		if !ok {
			log.Debug("part exists, ignored", "path", p.final)
			ignored = append(ignored, p.final)
			continue
		}
		written = append(written, p.final)
	}
	return written, ignored, nil
}

// unpublish removes published parts and the partition dirs left empty by them.
func unpublish(paths []string, log *slog.Logger) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn("remove published part", "path", path, "error", err)
			continue
		}
		// only succeeds when empty
		os.Remove(filepath.Dir(path))
	}
}

// linkFile is swapped in tests to exercise the copy fallback.
var linkFile = os.Link

// publishIfAbsent exposes tmp as final unless final already exists.
// A hard link fails atomically on an existing name. Without link support the
// name is claimed with O_EXCL and the part is copied into it.
func publishIfAbsent(tmp, final string) (bool, error) {
	err := linkFile(tmp, final)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	return copyIfAbsent(tmp, final)
}

func copyIfAbsent(tmp, final string) (bool, error) {
	dst, err := os.OpenFile(final, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	src, err := os.Open(tmp)
	if err != nil {
		dst.Close()
		os.Remove(final)
		return false, err
	}
	defer src.Close()
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(final)
		return false, err
	}
	if err := dst.Close(); err != nil {
		os.Remove(final)
		return false, err
	}
	return true, nil
}

// discard closes open writers and removes the staging dir with everything unpublished in it.
func (s *stage) discard() error {
	for _, p := range s.parts {
		if p.w != nil {
			p.w.Close()
			p.w = nil
		}
	}
	return os.RemoveAll(s.dir)
}
