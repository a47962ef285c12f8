package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/timvw/tmux-marks/internal/jump"
	"github.com/timvw/tmux-marks/internal/marks"
	"github.com/timvw/tmux-marks/internal/mux"
	"github.com/timvw/tmux-marks/internal/mux/muxtest"
	"github.com/timvw/tmux-marks/internal/runner/runnertest"
)

func newEngine(sessions ...muxtest.Session) (*Engine, *runnertest.Fake) {
	f := runnertest.New()
	muxtest.Install(f, sessions...)
	return New(mux.NewTmux(f, muxtest.Bin), Options{}), f
}

func twoSessions() []muxtest.Session {
	return []muxtest.Session{
		{ID: "$1", Name: "dev", Attached: true, Windows: []muxtest.Window{
			{Index: 0, Dir: "/home/user/proj", Panes: []string{"nvim"}},
		}},
		{ID: "$2", Name: "notes", Windows: []muxtest.Window{
			{Index: 0, Dir: "/home/user/notes", Panes: []string{"zsh"}},
		}},
	}
}

func TestEngine_SessionsAndSelection(t *testing.T) {
	e, _ := newEngine(twoSessions()...)
	ctx := context.Background()
	if err := e.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if got := len(e.ListSessions()); got != 2 {
		t.Fatalf("expected 2 sessions, got %d", got)
	}

	selected, err := e.ToggleSelection("$2")
	if err != nil || selected {
		t.Fatalf("ToggleSelection($2) = %v, %v", selected, err)
	}
	roots, err := e.SearchRoots(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(roots, []string{"/home/user/proj"}) {
		t.Errorf("SearchRoots() = %v", roots)
	}
}

func TestEngine_SearchRootsFallsBackToSnapshot(t *testing.T) {
	e, f := newEngine(twoSessions()...)
	ctx := context.Background()
	if err := e.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	f.Fail(mux.SessionsCommand(muxtest.Bin), errors.New("server gone"))

	roots, err := e.SearchRoots(ctx)
	if err != nil {
		t.Fatalf("SearchRoots() error: %v", err)
	}
	if len(roots) != 2 {
		t.Errorf("expected roots from previous snapshot, got %v", roots)
	}
}

func TestEngine_SearchRootsNoSnapshot(t *testing.T) {
	f := runnertest.New()
	f.Fail(mux.SessionsCommand(muxtest.Bin), errors.New("server gone"))
	e := New(mux.NewTmux(f, muxtest.Bin), Options{})
	if _, err := e.SearchRoots(context.Background()); err == nil {
		t.Fatal("expected an error without any snapshot")
	}
}

func TestEngine_Marks(t *testing.T) {
	e, _ := newEngine()
	if _, err := e.AddMark("/a.go", 3, "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := e.AddMark("/b.go", 0, "", ""); !errors.Is(err, marks.ErrInvalidMarkTarget) {
		t.Errorf("expected ErrInvalidMarkTarget, got %v", err)
	}
	if got := e.ListMarks(); len(got) != 1 || got[0].Name != "a.go" {
		t.Errorf("ListMarks() = %+v", got)
	}
	if !e.DeleteMark(1) || e.DeleteMark(1) {
		t.Error("DeleteMark should succeed once")
	}
}

func TestEngine_JumpToMark(t *testing.T) {
	e, f := newEngine(twoSessions()...)
	ctx := context.Background()
	if _, err := e.AddMark("/home/user/proj/main.go", 8, "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := e.AddMark("/home/user/notes/todo.md", 1, "", ""); err != nil {
		t.Fatal(err)
	}

	target, err := e.JumpToMark(ctx, 1)
	if err != nil {
		t.Fatalf("JumpToMark(1) error: %v", err)
	}
	if target.String() != "dev:0.0" {
		t.Errorf("target: got %s", target)
	}
	if got := f.CallsContaining("-l"); len(got) != 1 || got[0] != `tmux send-keys -t dev:0.0 -l ':silent! edit +8 "/home/user/proj/main.go"'` {
		t.Errorf("literal send: got %q", got)
	}

	if _, err := e.JumpToMark(ctx, 2); !errors.Is(err, jump.ErrNoEditorInSession) {
		t.Errorf("notes has no editor: got %v", err)
	}
	if _, err := e.JumpToMark(ctx, 9); !errors.Is(err, ErrNoSuchMark) {
		t.Errorf("expected ErrNoSuchMark, got %v", err)
	}
}

func TestEngine_Resolve(t *testing.T) {
	e, _ := newEngine(twoSessions()...)
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	s, ok := e.Resolve("/home/user/notes/todo.md")
	if !ok || s.Name != "notes" || s.HasEditor {
		t.Errorf("Resolve() = %+v, %v", s, ok)
	}
}
