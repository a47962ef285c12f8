package control

import (
	"fmt"
	"strings"

	"github.com/timvw/tmux-marks/internal/model"
)

// Operations accepted on the control socket.
const (
	OpAddMark    = "add_mark"
	OpRemoveMark = "remove_mark"
	OpListMarks  = "list_marks"
	OpRoots      = "roots"
	OpJump       = "jump"
)

// Request is one datagram sent to the control socket.
type Request struct {
	Op      string `json:"op"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Name    string `json:"name,omitempty"`
	BufType string `json:"buftype,omitempty"`
	Index   int    `json:"index,omitempty"`
}

// Response is written back when the sender bound a reply address.
type Response struct {
	OK     bool          `json:"ok"`
	Error  string        `json:"error,omitempty"`
	Marks  []model.Mark  `json:"marks,omitempty"`
	Roots  []string      `json:"roots,omitempty"`
	Target *model.Target `json:"target,omitempty"`
}

// Validate checks the fields each op needs. Value checks (line range, buffer
// type) are left to the engine so the caller gets its error text.
func (r Request) Validate() error {
	switch r.Op {
	case OpListMarks, OpRoots:
		return nil
	case OpAddMark, OpJump:
		if strings.TrimSpace(r.Path) == "" {
			return fmt.Errorf("%s: path is required", r.Op)
		}
		return nil
	case OpRemoveMark:
		if r.Index < 1 {
			return fmt.Errorf("remove_mark: index must be >= 1, got %d", r.Index)
		}
		return nil
	case "":
		return fmt.Errorf("op is required")
	default:
		return fmt.Errorf("unknown op %q", r.Op)
	}
}
