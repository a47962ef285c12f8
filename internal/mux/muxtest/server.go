// Package muxtest scripts a fake tmux server on top of runnertest.Fake.
package muxtest

import (
	"fmt"
	"strings"

	"github.com/timvw/tmux-marks/internal/mux"
	"github.com/timvw/tmux-marks/internal/runner/runnertest"
)

// Bin is the tmux binary name used by fixtures.
const Bin = "tmux"

// Session describes a scripted tmux session.
type Session struct {
	ID       string
	Name     string
	Attached bool
	Windows  []Window
}

// Window describes a scripted window. Panes holds each pane's current
// command; pane indexes start at 0.
type Window struct {
	Index int
	Name  string
	Dir   string
	Panes []string
}

// Install registers the query output for sessions in f, replacing whatever
// the session list returned before.
func Install(f *runnertest.Fake, sessions ...Session) {
	var list strings.Builder
	for _, s := range sessions {
		attached := "0"
		if s.Attached {
			attached = "1"
		}
		list.WriteString(join(s.ID, s.Name, fmt.Sprint(len(s.Windows)), attached))
		list.WriteString("\n")

		for _, w := range s.Windows {
			f.Set(mux.WindowCommand(Bin, s.Name, w.Index), join(fmt.Sprint(w.Index), w.Name, w.Dir)+"\n")
			var panes strings.Builder
			for i, cmd := range w.Panes {
				panes.WriteString(join(fmt.Sprint(i), cmd))
				panes.WriteString("\n")
			}
			f.Set(mux.PanesCommand(Bin, s.Name, w.Index), panes.String())
		}
	}
	f.Set(mux.SessionsCommand(Bin), list.String())
}

func join(fields ...string) string {
	return strings.Join(fields, mux.Delimiter)
}
