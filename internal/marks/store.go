// Package marks keeps the in-memory list of file+line bookmarks.
package marks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/timvw/tmux-marks/internal/model"
	telem "github.com/timvw/tmux-marks/internal/otel"
)

// ErrInvalidMarkTarget means the mark does not point at a normal file buffer.
var ErrInvalidMarkTarget = errors.New("invalid mark target")

// Store is an ordered list of marks. Safe for concurrent use.
// Marks live only as long as the process.
type Store struct {
	mu    sync.RWMutex
	marks []model.Mark

	// Metrics is nil-safe.
	Metrics *telem.Metrics
}

// NewStore returns an empty store.
func NewStore(metrics *telem.Metrics) *Store {
	return &Store{Metrics: metrics}
}

// Add appends a mark. bufType is the editor's buffer type and must be empty
// (a normal file buffer); "nofile", "terminal", "help" and the like are
// rejected. An empty name defaults to the file's base name.
func (s *Store) Add(path string, line int, name, bufType string) (model.Mark, error) {
	m, err := newMark(path, line, name, bufType)
	if err != nil {
		s.Metrics.RecordMarkChange(context.Background(), "reject")
		return model.Mark{}, err
	}

	s.mu.Lock()
	s.marks = append(s.marks, m)
	s.mu.Unlock()

	s.Metrics.RecordMarkChange(context.Background(), "add")
	return m, nil
}

func newMark(path string, line int, name, bufType string) (model.Mark, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return model.Mark{}, fmt.Errorf("%w: empty path", ErrInvalidMarkTarget)
	}
	if bufType != "" {
		return model.Mark{}, fmt.Errorf("%w: buffer type %q", ErrInvalidMarkTarget, bufType)
	}
	if line < 1 {
		return model.Mark{}, fmt.Errorf("%w: line %d", ErrInvalidMarkTarget, line)
	}
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return model.Mark{}, fmt.Errorf("%w: %v", ErrInvalidMarkTarget, err)
		}
		path = abs
	}
	if name == "" {
		name = filepath.Base(path)
	}
	return model.Mark{Path: path, Line: line, Name: name}, nil
}

// Remove deletes the mark at the 1-based index. It reports false when the
// index is out of range.
func (s *Store) Remove(index int) bool {
	s.mu.Lock()
	if index < 1 || index > len(s.marks) {
		s.mu.Unlock()
		return false
	}
	s.marks = append(s.marks[:index-1], s.marks[index:]...)
	s.mu.Unlock()

	s.Metrics.RecordMarkChange(context.Background(), "remove")
	return true
}

// List returns a copy of all marks in insertion order.
func (s *Store) List() []model.Mark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Mark(nil), s.marks...)
}

// Len returns the number of marks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.marks)
}
