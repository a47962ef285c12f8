package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func intPtr(i int) *int { return &i }

func TestTargets(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"window", WindowTarget("work", 2), "work:2"},
		{"pane", PaneTarget("work", 2, 1), "work:2.1"},
		{"target string", Target{Session: "dev", Window: 0, Pane: 3}.String(), "dev:0.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestEditorWindow_FirstEditorWins(t *testing.T) {
	s := Session{
		Name: "work",
		Windows: []Window{
			{Index: 0, WorkingDirectory: "/home/u/notes"},
			{Index: 1, WorkingDirectory: "/home/u/a", HasEditor: true, EditorPane: intPtr(2)},
			{Index: 2, WorkingDirectory: "/home/u/b", HasEditor: true, EditorPane: intPtr(0)},
		},
	}
	w, ok := s.EditorWindow()
	if !ok {
		t.Fatal("expected an editor window")
	}
	if w.Index != 1 || *w.EditorPane != 2 {
		t.Errorf("got window %d pane %d, want window 1 pane 2", w.Index, *w.EditorPane)
	}
}

func TestEditorWindow_None(t *testing.T) {
	s := Session{Windows: []Window{{Index: 0}}}
	if _, ok := s.EditorWindow(); ok {
		t.Error("expected no editor window")
	}
}

func TestClone_IsDeep(t *testing.T) {
	s := Session{
		ID:      "$1",
		Windows: []Window{{Index: 0, HasEditor: true, EditorPane: intPtr(1)}},
	}
	c := s.Clone()
	c.Windows[0].Name = "changed"
	*c.Windows[0].EditorPane = 9

	if s.Windows[0].Name != "" {
		t.Error("clone shares the windows slice")
	}
	if *s.Windows[0].EditorPane != 1 {
		t.Error("clone shares the editor pane pointer")
	}
}

func TestSummary(t *testing.T) {
	s := Session{ID: "$1", Name: "dev", Attached: true, Selected: true, HasEditor: true}
	got := s.Summary()
	for _, want := range []string{"* dev ($1)", "attached", "editor"} {
		if !strings.Contains(got, want) {
			t.Errorf("Summary() = %q, missing %q", got, want)
		}
	}
}

func TestWindow_EditorPaneOmittedWhenUnset(t *testing.T) {
	data, err := json.Marshal(Window{Index: 0, Name: "zsh"})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if strings.Contains(string(data), "editor_pane") {
		t.Errorf("editor_pane should be omitted when unset, got: %s", data)
	}

	data, err = json.Marshal(Window{Index: 0, HasEditor: true, EditorPane: intPtr(0)})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	// Pane 0 is a valid editor pane and must not be dropped.
	if !strings.Contains(string(data), `"editor_pane":0`) {
		t.Errorf("JSON output missing \"editor_pane\":0, got: %s", data)
	}
}
