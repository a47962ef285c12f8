package model

import (
	"fmt"
	"strings"
)

// Session is a tmux session as seen by the last inventory refresh.
type Session struct {
	// ID is the stable tmux session identifier (e.g., "$3").
	ID string `json:"id"`
	// Name is the display name. It may change between refreshes and is the
	// token used to address the session in tmux commands.
	Name string `json:"name"`
	// Windows are in tmux index order.
	Windows []Window `json:"windows"`
	// Attached reports whether a client is attached to the session.
	Attached bool `json:"attached"`
	// Selected marks the session as a search root. Carried across refreshes by ID.
	Selected bool `json:"selected"`
	// HasEditor is true iff at least one window has an editor pane.
	HasEditor bool `json:"has_editor"`
}

// Window is a tmux window inside a session.
type Window struct {
	// Index is the tmux window index used for addressing ("session:index").
	Index int `json:"index"`
	// Name is the window name.
	Name string `json:"name"`
	// WorkingDirectory is the current path of the window's active pane.
	WorkingDirectory string `json:"working_directory"`
	// HasEditor is true when a pane in this window runs an editor.
	HasEditor bool `json:"has_editor"`
	// EditorPane is the index of the first pane running an editor.
	// Set iff HasEditor.
	EditorPane *int `json:"editor_pane,omitempty"`
}

// Pane is a single pane reported during editor detection. Not retained.
type Pane struct {
	Index   int    `json:"index"`
	Command string `json:"command"`
}

// Mark is a saved file+line bookmark.
type Mark struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Name string `json:"name"`
}

// Target is a fully resolved jump destination.
type Target struct {
	Session string `json:"session"`
	Window  int    `json:"window"`
	Pane    int    `json:"pane"`
}

// String returns the tmux pane address "session:window.pane".
func (t Target) String() string {
	return PaneTarget(t.Session, t.Window, t.Pane)
}

// WindowTarget returns the tmux window address "session:window".
func WindowTarget(session string, window int) string {
	return fmt.Sprintf("%s:%d", session, window)
}

// PaneTarget returns the tmux pane address "session:window.pane".
func PaneTarget(session string, window, pane int) string {
	return fmt.Sprintf("%s:%d.%d", session, window, pane)
}

// EditorWindow returns the first window running an editor, or false.
// This is not necessarily the window whose directory matched a path.
func (s Session) EditorWindow() (Window, bool) {
	for _, w := range s.Windows {
		if w.HasEditor && w.EditorPane != nil {
			return w, true
		}
	}
	return Window{}, false
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	c := s
	c.Windows = make([]Window, len(s.Windows))
	for i, w := range s.Windows {
		c.Windows[i] = w
		if w.EditorPane != nil {
			p := *w.EditorPane
			c.Windows[i].EditorPane = &p
		}
	}
	return c
}

// Summary renders a one-line description of the session for CLI output.
func (s Session) Summary() string {
	var b strings.Builder
	marker := " "
	if s.Selected {
		marker = "*"
	}
	b.WriteString(fmt.Sprintf("%s %s (%s)", marker, s.Name, s.ID))
	if s.Attached {
		b.WriteString(" attached")
	}
	if s.HasEditor {
		b.WriteString(" editor")
	}
	return b.String()
}
