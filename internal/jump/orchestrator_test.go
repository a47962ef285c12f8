package jump

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/timvw/tmux-marks/internal/inventory"
	"github.com/timvw/tmux-marks/internal/model"
	"github.com/timvw/tmux-marks/internal/mux"
	"github.com/timvw/tmux-marks/internal/mux/muxtest"
	"github.com/timvw/tmux-marks/internal/runner/runnertest"
)

func newOrchestrator(sessions ...muxtest.Session) (*Orchestrator, *runnertest.Fake) {
	f := runnertest.New()
	muxtest.Install(f, sessions...)
	tm := mux.NewTmux(f, muxtest.Bin)
	return New(inventory.New(tm, inventory.Options{}), tm, nil), f
}

// controlCalls drops the inventory queries and keeps what the jump issued.
func controlCalls(f *runnertest.Fake) []string {
	var out []string
	for _, c := range f.Calls() {
		if strings.Contains(c, " list-") {
			continue
		}
		out = append(out, c)
	}
	return out
}

func TestBuildEditCommand(t *testing.T) {
	tests := []struct {
		path string
		line int
		want string
	}{
		{"/src/main.go", 1, `:silent! edit +1 "/src/main.go"`},
		{"/tmp/a'b.txt", 7, `:silent! edit +7 "/tmp/a'b.txt"`},
		{`/tmp/say "hi".md`, 3, `:silent! edit +3 "/tmp/say \"hi\".md"`},
		{"/tmp/with space", 42, `:silent! edit +42 "/tmp/with space"`},
	}
	for _, tt := range tests {
		if got := BuildEditCommand(tt.path, tt.line); got != tt.want {
			t.Errorf("BuildEditCommand(%q, %d) = %q, want %q", tt.path, tt.line, got, tt.want)
		}
	}
}

func TestJump_CommandSequence(t *testing.T) {
	o, f := newOrchestrator(muxtest.Session{
		ID: "$1", Name: "work",
		Windows: []muxtest.Window{
			{Index: 0, Dir: "/home", Panes: []string{"zsh"}},
			{Index: 1, Dir: "/var", Panes: []string{"zsh"}},
			{Index: 2, Dir: "/tmp", Panes: []string{"zsh", "nvim"}},
		},
	})

	target, err := o.Jump(context.Background(), "/tmp/a'b.txt", 7)
	if err != nil {
		t.Fatalf("Jump() error: %v", err)
	}
	if target != (model.Target{Session: "work", Window: 2, Pane: 1}) {
		t.Errorf("target: got %+v", target)
	}

	want := []string{
		"tmux switch-client -t work",
		"tmux select-window -t work:2",
		"tmux select-pane -t work:2.1",
		"tmux send-keys -t work:2.1 Escape",
		`tmux send-keys -t work:2.1 -l ':silent! edit +7 "/tmp/a'\''b.txt"'`,
		"tmux send-keys -t work:2.1 Enter",
	}
	got := controlCalls(f)
	if len(got) != len(want) {
		t.Fatalf("got %d control commands, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d:\n got  %s\n want %s", i, got[i], want[i])
		}
	}
}

func TestJump_RefreshesFirst(t *testing.T) {
	o, f := newOrchestrator(muxtest.Session{
		ID: "$1", Name: "dev",
		Windows: []muxtest.Window{{Index: 0, Dir: "/p", Panes: []string{"vim"}}},
	})
	if _, err := o.Jump(context.Background(), "/p/x.go", 1); err != nil {
		t.Fatal(err)
	}
	if calls := f.Calls(); len(calls) == 0 || calls[0] != mux.SessionsCommand(muxtest.Bin) {
		t.Errorf("first command should list sessions, got %q", calls)
	}
}

func TestJump_FirstEditorWindowNotMatchedWindow(t *testing.T) {
	// The path lives under window 3's directory but window 1 is the first
	// window with an editor, so the jump lands there.
	o, f := newOrchestrator(muxtest.Session{
		ID: "$1", Name: "mono",
		Windows: []muxtest.Window{
			{Index: 0, Dir: "/repo", Panes: []string{"zsh"}},
			{Index: 1, Dir: "/repo/docs", Panes: []string{"nvim"}},
			{Index: 2, Dir: "/repo/api", Panes: []string{"zsh"}},
			{Index: 3, Dir: "/repo/web", Panes: []string{"zsh", "vim"}},
		},
	})

	target, err := o.Jump(context.Background(), "/repo/web/index.ts", 10)
	if err != nil {
		t.Fatal(err)
	}
	if target.Window != 1 || target.Pane != 0 {
		t.Errorf("expected mono:1.0, got %s", target)
	}
	if got := f.CallsContaining("select-pane"); len(got) != 1 || got[0] != "tmux select-pane -t mono:1.0" {
		t.Errorf("select-pane: got %q", got)
	}
}

func TestJump_NoMatchingSession(t *testing.T) {
	o, f := newOrchestrator(muxtest.Session{
		ID: "$1", Name: "dev",
		Windows: []muxtest.Window{{Index: 0, Dir: "/home/user/proj", Panes: []string{"nvim"}}},
	})
	_, err := o.Jump(context.Background(), "/etc/hosts", 1)
	if !errors.Is(err, ErrNoMatchingSession) {
		t.Fatalf("expected ErrNoMatchingSession, got %v", err)
	}
	if got := controlCalls(f); len(got) != 0 {
		t.Errorf("no control commands expected, got %q", got)
	}
}

func TestJump_NoEditorInSession(t *testing.T) {
	o, f := newOrchestrator(muxtest.Session{
		ID: "$1", Name: "ops",
		Windows: []muxtest.Window{{Index: 0, Dir: "/srv", Panes: []string{"zsh", "htop"}}},
	})
	_, err := o.Jump(context.Background(), "/srv/app.conf", 5)
	if !errors.Is(err, ErrNoEditorInSession) {
		t.Fatalf("expected ErrNoEditorInSession, got %v", err)
	}
	if got := controlCalls(f); len(got) != 0 {
		t.Errorf("no control commands expected, got %q", got)
	}
}

func TestJump_InvalidLine(t *testing.T) {
	o, f := newOrchestrator(muxtest.Session{
		ID: "$1", Name: "dev",
		Windows: []muxtest.Window{{Index: 0, Dir: "/p", Panes: []string{"nvim"}}},
	})
	for _, line := range []int{0, -3} {
		if _, err := o.Jump(context.Background(), "/p/a.go", line); !errors.Is(err, ErrInvalidLine) {
			t.Errorf("line %d: expected ErrInvalidLine, got %v", line, err)
		}
	}
	if got := f.Calls(); len(got) != 0 {
		t.Errorf("no commands expected for an invalid line, got %q", got)
	}
}

func TestJump_EmptyInventoryIsNoMatch(t *testing.T) {
	o, _ := newOrchestrator()
	if _, err := o.Jump(context.Background(), "/any", 1); !errors.Is(err, ErrNoMatchingSession) {
		t.Fatalf("expected ErrNoMatchingSession, got %v", err)
	}
}

func TestJump_RefreshErrorPassesThrough(t *testing.T) {
	f := runnertest.New()
	f.Fail(mux.SessionsCommand(muxtest.Bin), errors.New("no server running"))
	tm := mux.NewTmux(f, muxtest.Bin)
	o := New(inventory.New(tm, inventory.Options{}), tm, nil)

	_, err := o.Jump(context.Background(), "/any", 1)
	if !errors.Is(err, inventory.ErrUnavailable) {
		t.Fatalf("expected inventory.ErrUnavailable, got %v", err)
	}
}

// fakeController fails on a chosen step.
type fakeController struct {
	failOn string
	calls  []string
}

func (c *fakeController) record(step string) error {
	c.calls = append(c.calls, step)
	if step == c.failOn {
		return errors.New(step + " failed")
	}
	return nil
}

func (c *fakeController) SwitchClient(context.Context, string) error { return c.record("switch") }
func (c *fakeController) SelectWindow(context.Context, string) error { return c.record("window") }
func (c *fakeController) SelectPane(context.Context, string) error   { return c.record("pane") }
func (c *fakeController) SendKeys(_ context.Context, _ string, keys string) error {
	return c.record(keys)
}
func (c *fakeController) SendLiteral(context.Context, string, string) error {
	return c.record("literal")
}

// fakeInventory serves a fixed snapshot.
type fakeInventory struct {
	refreshErr error
	sessions   []model.Session
}

func (i *fakeInventory) Refresh(context.Context) error { return i.refreshErr }
func (i *fakeInventory) Resolve(path string) (model.Session, bool) {
	return inventory.Resolve(i.sessions, path)
}

func TestJump_StopsAtFirstFailedStep(t *testing.T) {
	pane := 0
	inv := &fakeInventory{sessions: []model.Session{{
		ID: "$1", Name: "dev", HasEditor: true,
		Windows: []model.Window{{Index: 0, WorkingDirectory: "/p", HasEditor: true, EditorPane: &pane}},
	}}}

	tests := []struct {
		failOn    string
		wantCalls int
	}{
		{"switch", 1},
		{"window", 2},
		{"pane", 3},
		{"Escape", 4},
		{"literal", 5},
		{"Enter", 6},
	}
	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			ctl := &fakeController{failOn: tt.failOn}
			o := New(inv, ctl, nil)
			if _, err := o.Jump(context.Background(), "/p/a.go", 1); err == nil {
				t.Fatal("expected an error")
			}
			if len(ctl.calls) != tt.wantCalls {
				t.Errorf("got calls %q, want %d", ctl.calls, tt.wantCalls)
			}
		})
	}
}
