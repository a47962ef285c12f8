// Package logging installs the process-wide slog logger.
//
// CLI commands log to stderr. The picker owns the terminal, so it and the
// headless server log to a rotating file instead.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Sink selects where log records go.
type Sink int

const (
	SinkStderr Sink = iota
	SinkFile
	SinkNone
)

// Options configures Init.
type Options struct {
	Level   string // debug, info, warn, error
	Format  string // text or json
	Sink    Sink
	File    string // Used with SinkFile; empty means DefaultFile()
	Version string
}

// DefaultFile returns $XDG_STATE_HOME/tmux-marks/tmux-marks.log, falling back
// to ~/.local/state.
func DefaultFile() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "tmux-marks", "tmux-marks.log")
}

// Init builds the logger, installs it as the slog default and returns a
// function that flushes and closes the sink.
func Init(opts Options) (func() error, error) {
	writer, closeFn, err := resolveWriter(opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(New(writer, opts))
	return closeFn, nil
}

// New builds a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	logger := slog.New(handler)
	if opts.Version != "" {
		logger = logger.With(slog.String("version", opts.Version))
	}
	return logger
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolveWriter(opts Options) (io.Writer, func() error, error) {
	switch opts.Sink {
	case SinkNone:
		return io.Discard, func() error { return nil }, nil
	case SinkStderr:
		return os.Stderr, func() error { return nil }, nil
	case SinkFile:
		path := strings.TrimSpace(opts.File)
		if path == "" {
			path = DefaultFile()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     14,
			Compress:   true,
		}
		return rot, func() error { return rot.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %d", opts.Sink)
	}
}
