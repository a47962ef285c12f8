package inventory

import (
	"testing"

	"github.com/timvw/tmux-marks/internal/model"
)

func intPtr(i int) *int { return &i }

func session(id, name string, editor bool, dirs ...string) model.Session {
	s := model.Session{ID: id, Name: name, HasEditor: editor}
	for i, d := range dirs {
		w := model.Window{Index: i, WorkingDirectory: d}
		if editor && i == 0 {
			w.HasEditor = true
			w.EditorPane = intPtr(0)
		}
		s.Windows = append(s.Windows, w)
	}
	return s
}

func TestResolve(t *testing.T) {
	sessions := []model.Session{
		session("$1", "home", true, "/home/user"),
		session("$2", "proj", true, "/home/user/proj"),
		session("$3", "deep", false, "/home/user/proj/vendor/lib"),
		session("$4", "tie-a", true, "/srv/same"),
		session("$5", "tie-b", true, "/srv/same"),
		session("$6", "blank", true, ""),
	}

	tests := []struct {
		name   string
		path   string
		want   string
		wantOK bool
	}{
		{"longest prefix wins", "/home/user/proj/main.go", "proj", true},
		{"shorter prefix when longer does not match", "/home/user/notes.txt", "home", true},
		{"deepest wins even without editor", "/home/user/proj/vendor/lib/x.go", "deep", true},
		{"equal length keeps first", "/srv/same/file", "tie-a", true},
		{"no match", "/etc/hosts", "", false},
		{"exact directory", "/home/user/proj", "proj", true},
		{"byte prefix, not path segment", "/home/user/project2/a.go", "proj", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(sessions, tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && got.Name != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got.Name, tt.want)
			}
		})
	}
}

func TestResolve_Empty(t *testing.T) {
	if _, ok := Resolve(nil, "/any/path"); ok {
		t.Error("expected no match on an empty inventory")
	}
}

func TestResolve_Deterministic(t *testing.T) {
	sessions := []model.Session{
		session("$1", "a", true, "/x", "/x/y"),
		session("$2", "b", true, "/x/y"),
	}
	for i := 0; i < 10; i++ {
		got, ok := Resolve(sessions, "/x/y/z")
		if !ok || got.ID != "$1" {
			t.Fatalf("iteration %d: got %q", i, got.ID)
		}
	}
}
