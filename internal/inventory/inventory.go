// Package inventory builds the session → window → pane tree from tmux,
// detects which windows run an editor and keeps per-session selection state
// across refreshes.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/timvw/tmux-marks/internal/model"
	"github.com/timvw/tmux-marks/internal/mux"
	telem "github.com/timvw/tmux-marks/internal/otel"
)

// DefaultEditorPattern matches "vim" with an optional leading character
// (vim, nvim, gvim, ...).
const DefaultEditorPattern = `^.?vim$`

var (
	// ErrUnavailable means the session list could not be queried.
	ErrUnavailable = errors.New("multiplexer unavailable")
	// ErrNoSessionsFound means the multiplexer reported no sessions.
	ErrNoSessionsFound = errors.New("no sessions found")
	// ErrUnknownSession means no session with the given id is in the snapshot.
	ErrUnknownSession = errors.New("unknown session")
)

var tracer = otel.Tracer("tmux-marks")

// Options configures an Inventory.
type Options struct {
	// EditorPattern matches pane commands that count as an editor.
	// Nil means DefaultEditorPattern.
	EditorPattern *regexp.Regexp
	// WindowBaseIndex is the first window index queried per session.
	WindowBaseIndex int
	// Metrics is nil-safe.
	Metrics *telem.Metrics
}

// Inventory holds the last complete snapshot of tmux sessions.
type Inventory struct {
	mux       mux.Querier
	editor    *regexp.Regexp
	baseIndex int
	metrics   *telem.Metrics

	mu       sync.RWMutex
	sessions []model.Session
}

// New creates an empty inventory backed by q.
func New(q mux.Querier, opts Options) *Inventory {
	editor := opts.EditorPattern
	if editor == nil {
		editor = regexp.MustCompile(DefaultEditorPattern)
	}
	return &Inventory{
		mux:       q,
		editor:    editor,
		baseIndex: opts.WindowBaseIndex,
		metrics:   opts.Metrics,
	}
}

// Refresh queries tmux and replaces the snapshot. On failure the previous
// snapshot is kept and an error wrapping ErrUnavailable or
// ErrNoSessionsFound is returned.
func (inv *Inventory) Refresh(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "inventory.refresh")
	defer span.End()

	records, err := inv.mux.ListSessions(ctx)
	if err != nil {
		inv.metrics.RecordRefresh(ctx, "unavailable", 0)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(records) == 0 {
		inv.metrics.RecordRefresh(ctx, "empty", 0)
		return ErrNoSessionsFound
	}

	seen := make(map[string]bool, len(records))
	sessions := make([]model.Session, 0, len(records))
	for _, rec := range records {
		if seen[rec.ID] {
			slog.Warn("duplicate session id in tmux output", "id", rec.ID, "name", rec.Name)
			continue
		}
		seen[rec.ID] = true

		s := model.Session{
			ID:       rec.ID,
			Name:     rec.Name,
			Attached: rec.Attached,
		}
		s.Windows = inv.windows(ctx, rec)
		for _, w := range s.Windows {
			if w.HasEditor {
				s.HasEditor = true
				break
			}
		}
		sessions = append(sessions, s)
	}

	// Selection is read at swap time so toggles made while the queries ran
	// are not lost.
	inv.mu.Lock()
	previous := make(map[string]bool, len(inv.sessions))
	for _, s := range inv.sessions {
		previous[s.ID] = s.Selected
	}
	for i := range sessions {
		selected, ok := previous[sessions[i].ID]
		sessions[i].Selected = !ok || selected
	}
	inv.sessions = sessions
	inv.mu.Unlock()

	inv.metrics.RecordRefresh(ctx, "ok", len(sessions))
	span.SetAttributes(attribute.Int("sessions.total", len(sessions)))
	slog.Debug("inventory refreshed", "sessions", len(sessions))
	return nil
}

// windows queries each window of a session one index at a time.
// A failed or empty window query skips that window.
func (inv *Inventory) windows(ctx context.Context, rec mux.SessionRecord) []model.Window {
	windows := make([]model.Window, 0, rec.Windows)
	for index := inv.baseIndex; index < inv.baseIndex+rec.Windows; index++ {
		wr, ok, err := inv.mux.ListWindow(ctx, rec.Name, index)
		if err != nil {
			slog.Warn("window query failed", "session", rec.Name, "window", index, "err", err)
			continue
		}
		if !ok {
			continue
		}
		w := model.Window{
			Index:            wr.Index,
			Name:             wr.Name,
			WorkingDirectory: wr.WorkingDirectory,
		}
		inv.detectEditor(ctx, rec.Name, &w)
		windows = append(windows, w)
	}
	return windows
}

// detectEditor marks w with the first pane whose command is an editor.
// Pane query failures leave the window without an editor.
func (inv *Inventory) detectEditor(ctx context.Context, session string, w *model.Window) {
	panes, err := inv.mux.ListPanes(ctx, session, w.Index)
	if err != nil {
		slog.Warn("pane query failed", "session", session, "window", w.Index, "err", err)
		return
	}
	for _, p := range panes {
		if inv.editor.MatchString(p.Command) {
			idx := p.Index
			w.HasEditor = true
			w.EditorPane = &idx
			return
		}
	}
}

// Sessions returns a deep copy of the current snapshot in tmux order.
func (inv *Inventory) Sessions() []model.Session {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]model.Session, len(inv.sessions))
	for i, s := range inv.sessions {
		out[i] = s.Clone()
	}
	return out
}

// Session returns a copy of the session with the given id.
func (inv *Inventory) Session(id string) (model.Session, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	for _, s := range inv.sessions {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return model.Session{}, false
}

// ToggleSelection flips the selected flag of a session and returns the new value.
func (inv *Inventory) ToggleSelection(id string) (bool, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for i := range inv.sessions {
		if inv.sessions[i].ID == id {
			inv.sessions[i].Selected = !inv.sessions[i].Selected
			return inv.sessions[i].Selected, nil
		}
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownSession, id)
}

// SearchRoots returns the working directories of all windows in selected
// sessions, deduplicated, in inventory order.
func (inv *Inventory) SearchRoots() []string {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	seen := map[string]bool{}
	var roots []string
	for _, s := range inv.sessions {
		if !s.Selected {
			continue
		}
		for _, w := range s.Windows {
			if w.WorkingDirectory == "" || seen[w.WorkingDirectory] {
				continue
			}
			seen[w.WorkingDirectory] = true
			roots = append(roots, w.WorkingDirectory)
		}
	}
	return roots
}

// Resolve finds the session owning path in the current snapshot.
func (inv *Inventory) Resolve(path string) (model.Session, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	s, ok := Resolve(inv.sessions, path)
	if !ok {
		return model.Session{}, false
	}
	return s.Clone(), true
}
