// Package engine ties the inventory, the mark store and the jump orchestrator
// together behind the surface used by the picker, the control socket and the
// CLI.
package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/timvw/tmux-marks/internal/inventory"
	"github.com/timvw/tmux-marks/internal/jump"
	"github.com/timvw/tmux-marks/internal/marks"
	"github.com/timvw/tmux-marks/internal/model"
	"github.com/timvw/tmux-marks/internal/mux"
	telem "github.com/timvw/tmux-marks/internal/otel"
)

// ErrNoSuchMark means a mark index is out of range.
var ErrNoSuchMark = errors.New("no such mark")

// Options configures New.
type Options struct {
	Inventory inventory.Options
	Metrics   *telem.Metrics
}

// Engine owns the stores for one process. Safe for concurrent use.
type Engine struct {
	inventory *inventory.Inventory
	marks     *marks.Store
	jumper    *jump.Orchestrator
}

// New builds an engine on top of a multiplexer.
func New(m mux.Multiplexer, opts Options) *Engine {
	if opts.Inventory.Metrics == nil {
		opts.Inventory.Metrics = opts.Metrics
	}
	inv := inventory.New(m, opts.Inventory)
	return &Engine{
		inventory: inv,
		marks:     marks.NewStore(opts.Metrics),
		jumper:    jump.New(inv, m, opts.Metrics),
	}
}

// Refresh re-queries tmux.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.inventory.Refresh(ctx)
}

// ListSessions returns the current snapshot.
func (e *Engine) ListSessions() []model.Session {
	return e.inventory.Sessions()
}

// ToggleSelection flips whether a session contributes search roots.
func (e *Engine) ToggleSelection(id string) (bool, error) {
	return e.inventory.ToggleSelection(id)
}

// Resolve returns the session owning path in the current snapshot.
func (e *Engine) Resolve(path string) (model.Session, bool) {
	return e.inventory.Resolve(path)
}

// SearchRoots refreshes and returns the working directories of the selected
// sessions. A failed refresh falls back to the previous snapshot; the error
// is only returned when there is no snapshot at all.
func (e *Engine) SearchRoots(ctx context.Context) ([]string, error) {
	if err := e.inventory.Refresh(ctx); err != nil {
		if len(e.inventory.Sessions()) == 0 {
			return nil, err
		}
		slog.Warn("search roots from previous snapshot", "err", err)
	}
	return e.inventory.SearchRoots(), nil
}

// ListMarks returns all marks in insertion order.
func (e *Engine) ListMarks() []model.Mark {
	return e.marks.List()
}

// AddMark appends a mark.
func (e *Engine) AddMark(path string, line int, name, bufType string) (model.Mark, error) {
	m, err := e.marks.Add(path, line, name, bufType)
	if err != nil {
		return model.Mark{}, err
	}
	slog.Info("mark added", "path", m.Path, "line", m.Line, "name", m.Name)
	return m, nil
}

// DeleteMark removes the mark at the 1-based index.
func (e *Engine) DeleteMark(index int) bool {
	return e.marks.Remove(index)
}

// Jump opens path at line in the editor of the owning session.
func (e *Engine) Jump(ctx context.Context, path string, line int) (model.Target, error) {
	return e.jumper.Jump(ctx, path, line)
}

// JumpToMark jumps to the mark at the 1-based index.
func (e *Engine) JumpToMark(ctx context.Context, index int) (model.Target, error) {
	list := e.marks.List()
	if index < 1 || index > len(list) {
		return model.Target{}, ErrNoSuchMark
	}
	m := list[index-1]
	return e.Jump(ctx, m.Path, m.Line)
}
