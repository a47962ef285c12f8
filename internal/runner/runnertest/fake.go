// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"strings"
	"sync"
)

// Fake answers commands from a table and records every call.
// Commands without an entry succeed with empty output, which matches tmux
// control commands (switch-client, send-keys) that print nothing.
type Fake struct {
	mu      sync.Mutex
	outputs map[string]string
	errors  map[string]error
	calls   []string
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{outputs: map[string]string{}, errors: map[string]error{}}
}

// Set registers the stdout returned for command.
func (f *Fake) Set(command, out string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs[command] = out
	delete(f.errors, command)
}

// Fail makes command return err.
func (f *Fake) Fail(command string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[command] = err
}

// Run implements runner.Runner.
func (f *Fake) Run(_ context.Context, command string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, command)
	if err, ok := f.errors[command]; ok {
		return "", err
	}
	return f.outputs[command], nil
}

// Calls returns a copy of all commands run so far.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallsContaining returns the recorded commands that contain substr.
func (f *Fake) CallsContaining(substr string) []string {
	var out []string
	for _, c := range f.Calls() {
		if strings.Contains(c, substr) {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls but keeps the table.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}
