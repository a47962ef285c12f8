package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// ErrNoServer means nothing is listening on the control socket.
var ErrNoServer = errors.New("no tmux-marks process is listening")

const (
	defaultClientTimeout = 5 * time.Second
	maxResponseBytes     = 256 * 1024
)

// Client sends requests to a running server.
type Client struct {
	Path    string
	Timeout time.Duration
}

// NewClient creates a client for the socket at path.
func NewClient(path string) *Client {
	return &Client{Path: path, Timeout: defaultClientTimeout}
}

// Send delivers req without waiting for a reply.
func (c *Client) Send(req Request) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	addr, err := net.ResolveUnixAddr("unixgram", c.Path)
	if err != nil {
		return fmt.Errorf("resolve unix addr: %w", err)
	}
	conn, err := net.DialUnix("unixgram", nil, addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoServer, err)
	}
	defer conn.Close()
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrNoServer, err)
	}
	return nil
}

// Do sends req and waits for the reply. A reply with OK false is returned
// as an error carrying the server's message.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}
	server, err := net.ResolveUnixAddr("unixgram", c.Path)
	if err != nil {
		return Response{}, fmt.Errorf("resolve unix addr: %w", err)
	}

	// The reply address sits next to the server socket, which is already
	// private to this user.
	local := filepath.Join(filepath.Dir(c.Path), fmt.Sprintf("client-%d-%d.sock", os.Getpid(), time.Now().UnixNano()))
	laddr, err := net.ResolveUnixAddr("unixgram", local)
	if err != nil {
		return Response{}, fmt.Errorf("resolve reply addr: %w", err)
	}
	conn, err := net.ListenUnixgram("unixgram", laddr)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrNoServer, err)
	}
	defer func() {
		_ = conn.Close()
		_ = os.Remove(local)
	}()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return Response{}, err
	}

	if _, err := conn.WriteToUnix(payload, server); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrNoServer, err)
	}

	buf := make([]byte, maxResponseBytes)
	n, _, err := conn.ReadFromUnix(buf)
	if err != nil {
		return Response{}, fmt.Errorf("read reply: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(buf[:n], &resp); err != nil {
		return Response{}, fmt.Errorf("decode reply: %w", err)
	}
	if !resp.OK {
		return resp, errors.New(resp.Error)
	}
	return resp, nil
}
