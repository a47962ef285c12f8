// Package control exposes the engine on a unix datagram socket so editor
// hooks and CLI invocations can reach a running picker or serve process.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/timvw/tmux-marks/internal/model"
)

const defaultMaxPayloadBytes = 8 * 1024

// Engine is what the server dispatches requests to.
type Engine interface {
	ListMarks() []model.Mark
	AddMark(path string, line int, name, bufType string) (model.Mark, error)
	DeleteMark(index int) bool
	Jump(ctx context.Context, path string, line int) (model.Target, error)
	SearchRoots(ctx context.Context) ([]string, error)
}

// Server reads requests from the socket one at a time.
type Server struct {
	engine Engine
	path   string

	MaxPayloadBytes int

	mu     sync.Mutex
	conn   *net.UnixConn
	closed bool
}

// NewServer creates a server for engine listening at socketPath.
func NewServer(engine Engine, socketPath string) *Server {
	return &Server{
		engine:          engine,
		path:            socketPath,
		MaxPayloadBytes: defaultMaxPayloadBytes,
	}
}

// SocketPath returns the path the server binds.
func (s *Server) SocketPath() string {
	return s.path
}

// Start binds the socket and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.engine == nil {
		return fmt.Errorf("engine is required")
	}
	if s.path == "" {
		return fmt.Errorf("socket path is required")
	}
	if s.MaxPayloadBytes <= 0 {
		s.MaxPayloadBytes = defaultMaxPayloadBytes
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}
	if err := os.Chmod(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("chmod socket dir: %w", err)
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	addr, err := net.ResolveUnixAddr("unixgram", s.path)
	if err != nil {
		return fmt.Errorf("resolve unix addr: %w", err)
	}
	conn, err := net.ListenUnixgram("unixgram", addr)
	if err != nil {
		return fmt.Errorf("listen unixgram: %w", err)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		_ = conn.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.closed = false
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.close()
	}()

	go s.readLoop(ctx)

	slog.Info("control socket listening", "path", s.path)
	return nil
}

func (s *Server) readLoop(ctx context.Context) {
	buf := make([]byte, s.MaxPayloadBytes)
	for {
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()
		if conn == nil {
			return
		}

		n, from, err := conn.ReadFromUnix(buf)
		if err != nil {
			if s.isClosed() {
				return
			}
			continue
		}

		if n <= 0 || n >= s.MaxPayloadBytes {
			slog.Debug("dropping oversized control datagram", "bytes", n)
			continue
		}

		var req Request
		if err := json.Unmarshal(buf[:n], &req); err != nil {
			slog.Debug("dropping malformed control datagram", "err", err)
			continue
		}

		resp := Dispatch(ctx, s.engine, req)
		if from == nil || from.Name == "" {
			continue
		}
		out, err := json.Marshal(resp)
		if err != nil {
			slog.Warn("encode control response", "err", err)
			continue
		}
		if _, err := conn.WriteToUnix(out, from); err != nil {
			slog.Debug("control reply not delivered", "to", from.Name, "err", err)
		}
	}
}

// Dispatch runs one request against engine.
func Dispatch(ctx context.Context, engine Engine, req Request) Response {
	if err := req.Validate(); err != nil {
		return Response{Error: err.Error()}
	}

	switch req.Op {
	case OpAddMark:
		if _, err := engine.AddMark(req.Path, req.Line, req.Name, req.BufType); err != nil {
			return Response{Error: err.Error()}
		}
		return Response{OK: true, Marks: engine.ListMarks()}
	case OpRemoveMark:
		if !engine.DeleteMark(req.Index) {
			return Response{Error: fmt.Sprintf("no mark at index %d", req.Index)}
		}
		return Response{OK: true, Marks: engine.ListMarks()}
	case OpListMarks:
		return Response{OK: true, Marks: engine.ListMarks()}
	case OpRoots:
		roots, err := engine.SearchRoots(ctx)
		if err != nil {
			return Response{Error: err.Error()}
		}
		return Response{OK: true, Roots: roots}
	case OpJump:
		target, err := engine.Jump(ctx, req.Path, req.Line)
		if err != nil {
			return Response{Error: err.Error()}
		}
		return Response{OK: true, Target: &target}
	}
	return Response{Error: fmt.Sprintf("unknown op %q", req.Op)}
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	_ = os.Remove(s.path)
}
