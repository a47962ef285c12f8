// Package runner executes external commands for the tmux transport.
//
// This is the only I/O boundary of the engine: every tmux query and control
// command goes through a Runner as a single command string. Strings follow
// POSIX shell word rules and are tokenized, not handed to /bin/sh.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	telem "github.com/timvw/tmux-marks/internal/otel"
)

var (
	// ErrProcessSpawnFailed means the command could not be launched at all
	// (unparseable command string, binary missing, not executable).
	ErrProcessSpawnFailed = errors.New("process spawn failed")
	// ErrCommandFailed means the process ran but exited non-zero or timed out.
	ErrCommandFailed = errors.New("command failed")
)

// Runner runs a command string and returns its standard output.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// Exec is the production Runner. Each call is a single attempt.
type Exec struct {
	// Timeout bounds each spawn. Zero disables the bound.
	Timeout time.Duration
	// Metrics counts spawns by outcome; nil-safe.
	Metrics *telem.Metrics

	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewExec returns an Exec runner with the given per-call timeout.
func NewExec(timeout time.Duration) *Exec {
	return &Exec{Timeout: timeout, command: exec.CommandContext}
}

// WithExec allows tests to override the exec implementation.
func (e *Exec) WithExec(fn func(context.Context, string, ...string) *exec.Cmd) {
	e.command = fn
}

// Run tokenizes command, executes it and returns stdout.
func (e *Exec) Run(ctx context.Context, command string) (string, error) {
	args, err := shellquote.Split(command)
	if err != nil {
		e.Metrics.RecordSpawn(ctx, "spawn_failed")
		return "", fmt.Errorf("%w: parse %q: %v", ErrProcessSpawnFailed, command, err)
	}
	if len(args) == 0 {
		e.Metrics.RecordSpawn(ctx, "spawn_failed")
		return "", fmt.Errorf("%w: empty command", ErrProcessSpawnFailed)
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	run := e.command
	if run == nil {
		run = exec.CommandContext
	}
	cmd := run(ctx, args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	slog.Debug("exec", "command", command, "duration", time.Since(start), "err", err)
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			e.Metrics.RecordSpawn(ctx, "timeout")
			return "", fmt.Errorf("%w: %s: %v", ErrCommandFailed, args[0], ctx.Err())
		case errors.As(err, &exitErr):
			e.Metrics.RecordSpawn(ctx, "exit_error")
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				return "", fmt.Errorf("%w: %s: %v", ErrCommandFailed, args[0], err)
			}
			return "", fmt.Errorf("%w: %s: %v: %s", ErrCommandFailed, args[0], err, msg)
		default:
			e.Metrics.RecordSpawn(ctx, "spawn_failed")
			return "", fmt.Errorf("%w: %s: %v", ErrProcessSpawnFailed, args[0], err)
		}
	}
	e.Metrics.RecordSpawn(ctx, "ok")
	return stdout.String(), nil
}

// Quote wraps s in single quotes so it survives shell word splitting
// unchanged. Embedded single quotes become '\'' (close, escaped quote, reopen).
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Command joins args into a command string. Arguments made only of safe
// characters are left bare; everything else goes through Quote.
func Command(args ...string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if isBare(a) {
			parts[i] = a
		} else {
			parts[i] = Quote(a)
		}
	}
	return strings.Join(parts, " ")
}

func isBare(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == '/', r == ':', r == '=', r == ',', r == '+', r == '@':
		default:
			return false
		}
	}
	return true
}
