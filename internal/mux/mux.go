// Package mux is the textual tmux protocol used by the inventory and the jump
// orchestrator: it builds query and control command strings, runs them
// through a runner.Runner and parses the delimiter-separated records.
//
// The package does not interpret what runs in a pane. Editor detection and
// path matching live in the inventory package.
package mux

import (
	"context"

	"github.com/timvw/tmux-marks/internal/model"
)

// Delimiter separates fields in query output. Chosen to never appear in
// session names, window names or paths in practice.
const Delimiter = "||__||"

// SessionRecord is one parsed line of the session list query.
type SessionRecord struct {
	ID       string
	Name     string
	Windows  int
	Attached bool
}

// WindowRecord is one parsed line of a per-window query.
type WindowRecord struct {
	Index            int
	Name             string
	WorkingDirectory string
}

// Querier lists sessions, windows and panes.
type Querier interface {
	ListSessions(ctx context.Context) ([]SessionRecord, error)
	// ListWindow returns the window with the given index in session, or
	// false when tmux reports nothing for that index.
	ListWindow(ctx context.Context, session string, index int) (WindowRecord, bool, error)
	ListPanes(ctx context.Context, session string, window int) ([]model.Pane, error)
}

// Controller changes focus and types into panes. No output is parsed.
type Controller interface {
	SwitchClient(ctx context.Context, session string) error
	SelectWindow(ctx context.Context, target string) error
	SelectPane(ctx context.Context, target string) error
	// SendKeys sends tmux key names (e.g., "Escape", "Enter").
	SendKeys(ctx context.Context, target, keys string) error
	// SendLiteral sends text as literal keystrokes (send-keys -l).
	SendLiteral(ctx context.Context, target, text string) error
}

// Multiplexer is the full tmux surface used by the engine.
type Multiplexer interface {
	Name() string
	Querier
	Controller
}
