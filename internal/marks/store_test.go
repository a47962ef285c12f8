package marks

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/timvw/tmux-marks/internal/model"
)

func TestAdd_RoundTrip(t *testing.T) {
	s := NewStore(nil)
	m, err := s.Add("/home/user/proj/main.go", 12, "entry", "")
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	want := model.Mark{Path: "/home/user/proj/main.go", Line: 12, Name: "entry"}
	if m != want {
		t.Errorf("Add() = %+v, want %+v", m, want)
	}
	got := s.List()
	if len(got) != 1 || got[0] != want {
		t.Errorf("List() = %+v", got)
	}
}

func TestAdd_DefaultName(t *testing.T) {
	s := NewStore(nil)
	m, err := s.Add("/etc/nginx/nginx.conf", 1, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "nginx.conf" {
		t.Errorf("Name: got %q, want nginx.conf", m.Name)
	}
}

func TestAdd_RelativePathMadeAbsolute(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	s := NewStore(nil)
	m, err := s.Add("docs/readme.md", 3, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(wd, "docs/readme.md"); m.Path != want {
		t.Errorf("Path: got %q, want %q", m.Path, want)
	}
}

func TestAdd_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		line    int
		bufType string
	}{
		{"empty path", "", 1, ""},
		{"blank path", "   ", 1, ""},
		{"nofile buffer", "/tmp/x", 1, "nofile"},
		{"terminal buffer", "/tmp/x", 1, "terminal"},
		{"help buffer", "/tmp/x", 1, "help"},
		{"quickfix buffer", "/tmp/x", 1, "quickfix"},
		{"zero line", "/tmp/x", 0, ""},
		{"negative line", "/tmp/x", -1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(nil)
			if _, err := s.Add(tt.path, tt.line, "", tt.bufType); !errors.Is(err, ErrInvalidMarkTarget) {
				t.Fatalf("expected ErrInvalidMarkTarget, got %v", err)
			}
			if s.Len() != 0 {
				t.Error("rejected mark was stored")
			}
		})
	}
}

func TestAdd_KeepsDuplicatesInOrder(t *testing.T) {
	s := NewStore(nil)
	for _, line := range []int{5, 1, 5} {
		if _, err := s.Add("/a.go", line, "", ""); err != nil {
			t.Fatal(err)
		}
	}
	got := s.List()
	if len(got) != 3 || got[0].Line != 5 || got[1].Line != 1 || got[2].Line != 5 {
		t.Errorf("List() = %+v", got)
	}
}

func TestRemove(t *testing.T) {
	s := NewStore(nil)
	for _, p := range []string{"/a", "/b", "/c"} {
		if _, err := s.Add(p, 1, "", ""); err != nil {
			t.Fatal(err)
		}
	}

	if s.Remove(0) || s.Remove(4) || s.Remove(-1) {
		t.Error("out of range index should report false")
	}
	if !s.Remove(2) {
		t.Fatal("Remove(2) should succeed")
	}
	got := s.List()
	if len(got) != 2 || got[0].Path != "/a" || got[1].Path != "/c" {
		t.Errorf("after Remove(2): %+v", got)
	}
	if !s.Remove(2) || !s.Remove(1) {
		t.Fatal("removing remaining marks failed")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	if _, err := s.Add("/a", 1, "", ""); err != nil {
		t.Fatal(err)
	}
	got := s.List()
	got[0].Name = "changed"
	if s.List()[0].Name != "a" {
		t.Error("List() exposed internal state")
	}
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Add("/f", i+1, "", "")
			_ = s.List()
		}(i)
	}
	wg.Wait()
	if s.Len() != 20 {
		t.Errorf("expected 20 marks, got %d", s.Len())
	}
}
