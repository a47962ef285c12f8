package control

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSocketPath returns the per-user control socket location.
func DefaultSocketPath() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir != "" {
		return filepath.Join(runtimeDir, "tmux-marks", "control.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("tmux-marks-%d", os.Getuid()), "control.sock")
}
