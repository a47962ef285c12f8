package inventory

import (
	"strings"

	"github.com/timvw/tmux-marks/internal/model"
)

// Resolve returns the session owning the window whose working directory is
// the longest byte prefix of path. Equal lengths keep the first match in
// session order, then window order. The session is returned whether or not
// it runs an editor; callers check HasEditor.
func Resolve(sessions []model.Session, path string) (model.Session, bool) {
	best := -1
	bestLen := 0
	for i, s := range sessions {
		for _, w := range s.Windows {
			dir := w.WorkingDirectory
			if dir == "" || !strings.HasPrefix(path, dir) {
				continue
			}
			if len(dir) > bestLen {
				best = i
				bestLen = len(dir)
			}
		}
	}
	if best < 0 {
		return model.Session{}, false
	}
	return sessions[best], true
}
