package mux

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/timvw/tmux-marks/internal/model"
	"github.com/timvw/tmux-marks/internal/runner"
)

// Query formats. Fields are joined with Delimiter.
var (
	sessionFormat = strings.Join([]string{"#{session_id}", "#{session_name}", "#{session_windows}", "#{session_attached}"}, Delimiter)
	windowFormat  = strings.Join([]string{"#{window_index}", "#{window_name}", "#{pane_current_path}"}, Delimiter)
	paneFormat    = strings.Join([]string{"#{pane_index}", "#{pane_current_command}"}, Delimiter)
)

// Tmux implements Multiplexer on top of a Runner.
type Tmux struct {
	Runner runner.Runner
	// Bin is the tmux binary; defaults to "tmux".
	Bin string
}

// NewTmux creates a tmux multiplexer that issues commands through r.
func NewTmux(r runner.Runner, bin string) *Tmux {
	if bin == "" {
		bin = "tmux"
	}
	return &Tmux{Runner: r, Bin: bin}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// SessionsCommand is the session list query.
func SessionsCommand(bin string) string {
	return runner.Command(bin, "list-sessions", "-F", sessionFormat)
}

// WindowCommand is the per-window query, filtered to one index.
func WindowCommand(bin, session string, index int) string {
	filter := fmt.Sprintf("#{==:#{window_index},%d}", index)
	return runner.Command(bin, "list-windows", "-t", session, "-F", windowFormat, "-f", filter)
}

// PanesCommand is the pane query for one window.
func PanesCommand(bin, session string, window int) string {
	return runner.Command(bin, "list-panes", "-t", model.WindowTarget(session, window), "-F", paneFormat)
}

// ListSessions returns all sessions of the tmux server.
func (t *Tmux) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	out, err := t.Runner.Run(ctx, SessionsCommand(t.Bin))
	if err != nil {
		return nil, fmt.Errorf("tmux list-sessions: %w", err)
	}
	return parseSessions(out), nil
}

// ListWindow returns a single window of session filtered by index.
func (t *Tmux) ListWindow(ctx context.Context, session string, index int) (WindowRecord, bool, error) {
	out, err := t.Runner.Run(ctx, WindowCommand(t.Bin, session, index))
	if err != nil {
		return WindowRecord{}, false, fmt.Errorf("tmux list-windows -t %s: %w", session, err)
	}
	for _, w := range parseWindows(out) {
		if w.Index == index {
			return w, true, nil
		}
	}
	return WindowRecord{}, false, nil
}

// ListPanes returns the panes of one window in tmux order.
func (t *Tmux) ListPanes(ctx context.Context, session string, window int) ([]model.Pane, error) {
	out, err := t.Runner.Run(ctx, PanesCommand(t.Bin, session, window))
	if err != nil {
		return nil, fmt.Errorf("tmux list-panes -t %s: %w", model.WindowTarget(session, window), err)
	}
	return parsePanes(out), nil
}

// SwitchClient makes session the active session of the current client.
func (t *Tmux) SwitchClient(ctx context.Context, session string) error {
	if _, err := t.run(ctx, "switch-client", "-t", session); err != nil {
		return fmt.Errorf("tmux switch-client -t %s: %w", session, err)
	}
	return nil
}

// SelectWindow selects "session:window".
func (t *Tmux) SelectWindow(ctx context.Context, target string) error {
	if _, err := t.run(ctx, "select-window", "-t", target); err != nil {
		return fmt.Errorf("tmux select-window -t %s: %w", target, err)
	}
	return nil
}

// SelectPane selects "session:window.pane".
func (t *Tmux) SelectPane(ctx context.Context, target string) error {
	if _, err := t.run(ctx, "select-pane", "-t", target); err != nil {
		return fmt.Errorf("tmux select-pane -t %s: %w", target, err)
	}
	return nil
}

// SendKeys sends key names, interpreted by tmux (Escape, Enter, C-c).
func (t *Tmux) SendKeys(ctx context.Context, target, keys string) error {
	if _, err := t.run(ctx, "send-keys", "-t", target, keys); err != nil {
		return fmt.Errorf("tmux send-keys -t %s: %w", target, err)
	}
	return nil
}

// SendLiteral sends text in literal mode so tmux never maps it to key names.
func (t *Tmux) SendLiteral(ctx context.Context, target, text string) error {
	if _, err := t.run(ctx, "send-keys", "-t", target, "-l", text); err != nil {
		return fmt.Errorf("tmux send-keys -l -t %s: %w", target, err)
	}
	return nil
}

// run builds a quoted command string and executes it.
func (t *Tmux) run(ctx context.Context, args ...string) (string, error) {
	return t.Runner.Run(ctx, runner.Command(append([]string{t.Bin}, args...)...))
}

func parseSessions(out string) []SessionRecord {
	var sessions []SessionRecord
	for _, line := range splitLines(out) {
		parts := strings.SplitN(line, Delimiter, 4)
		if len(parts) != 4 {
			continue
		}
		windows, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			continue
		}
		attached := strings.TrimSpace(parts[3])
		sessions = append(sessions, SessionRecord{
			ID:       parts[0],
			Name:     parts[1],
			Windows:  windows,
			Attached: attached != "" && attached != "0",
		})
	}
	return sessions
}

func parseWindows(out string) []WindowRecord {
	var windows []WindowRecord
	for _, line := range splitLines(out) {
		parts := strings.SplitN(line, Delimiter, 3)
		if len(parts) != 3 {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		windows = append(windows, WindowRecord{
			Index:            index,
			Name:             parts[1],
			WorkingDirectory: strings.TrimRight(parts[2], "\r\n"),
		})
	}
	return windows
}

func parsePanes(out string) []model.Pane {
	var panes []model.Pane
	for _, line := range splitLines(out) {
		parts := strings.SplitN(line, Delimiter, 2)
		if len(parts) != 2 {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		panes = append(panes, model.Pane{Index: index, Command: strings.TrimSpace(parts[1])})
	}
	return panes
}

// splitLines splits output on newlines, dropping blank lines and trailing
// carriage returns.
func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
