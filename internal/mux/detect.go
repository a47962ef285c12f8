package mux

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/timvw/tmux-marks/internal/runner"
)

// ErrEnvironmentUnavailable means no tmux server can be reached.
var ErrEnvironmentUnavailable = errors.New("not running inside a tmux session")

// Detect returns a tmux multiplexer when one is reachable.
// It checks $TMUX first, then whether a tmux server answers list-sessions.
func Detect(ctx context.Context, r runner.Runner, bin string) (Multiplexer, error) {
	t := NewTmux(r, bin)
	if os.Getenv("TMUX") != "" {
		return t, nil
	}
	if os.Getenv("ZELLIJ") != "" {
		return nil, fmt.Errorf("%w: zellij is not supported", ErrEnvironmentUnavailable)
	}

	if _, err := r.Run(ctx, runner.Command(t.Bin, "list-sessions")); err != nil {
		return nil, fmt.Errorf("%w (set $TMUX or start a tmux server): %v", ErrEnvironmentUnavailable, err)
	}
	return t, nil
}

// FromName creates a Multiplexer by name.
func FromName(name string, r runner.Runner, bin string) (Multiplexer, error) {
	switch name {
	case "", "tmux":
		return NewTmux(r, bin), nil
	default:
		return nil, fmt.Errorf("unknown multiplexer: %q (supported: tmux)", name)
	}
}
