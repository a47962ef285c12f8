package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/timvw/tmux-marks/internal/logging"
	"github.com/timvw/tmux-marks/internal/picker"
)

var (
	flagNoEmbed bool
	flagTheme   string
)

var pickerCmd = &cobra.Command{
	Use:   "picker",
	Short: "Interactive session and mark list",
	Long: `Launch a terminal UI listing tmux sessions and marks.

Space toggles whether a session contributes search roots, Enter jumps to the
mark under the cursor and d deletes it. The control socket runs alongside,
so marks added with "tmux-marks mark add" show up while the picker is open.

If not already running inside tmux, the picker re-launches itself in a new
tmux session so that switch-client has a client to move. Use --no-embed to
disable this behavior.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPicker(cmd)
	},
}

func init() {
	pickerCmd.Flags().BoolVar(&flagNoEmbed, "no-embed", false,
		"Do not auto-embed in a tmux session (jumps will not move a client)")
	pickerCmd.Flags().StringVar(&flagTheme, "theme", "",
		"Color theme: dark, light (default: from config)")
	rootCmd.AddCommand(pickerCmd)
}

func runPicker(cmd *cobra.Command) error {
	if !flagNoEmbed {
		autoEmbedInTmux()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel() // stops the control socket when the UI exits

	a, err := newApp(ctx, logging.SinkFile)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	if err := startControl(ctx, a); err != nil {
		return err
	}

	theme := flagTheme
	if theme == "" {
		theme = a.cfg.Theme
	}
	p := &picker.Picker{
		Engine: a.engine,
		Theme:  theme,
		Redraw: time.Second,
	}
	return p.Run(ctx)
}

// autoEmbedInTmux re-launches the current process inside a tmux session
// when not already running under tmux. On success the current process is
// replaced (syscall.Exec) and this function never returns. On failure it
// prints a warning and returns.
func autoEmbedInTmux() {
	if os.Getenv("TMUX") != "" {
		return // already inside tmux
	}

	tmuxPath, err := exec.LookPath("tmux")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: tmux not found in PATH, jumps will not work\n")
		return
	}

	exe, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not resolve executable path: %v\n", err)
		return
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "/"
	}

	// Pick a session name, avoiding conflicts with existing sessions.
	sessionName := "tmux-marks"
	if exec.Command(tmuxPath, "has-session", "-t", sessionName).Run() == nil {
		sessionName = ""
	}

	// Build: tmux new-session [-s name] -c <wd> <exe> <args...>
	tmuxArgs := []string{"tmux", "new-session"}
	if sessionName != "" {
		tmuxArgs = append(tmuxArgs, "-s", sessionName)
	}
	tmuxArgs = append(tmuxArgs, "-c", wd, exe)
	tmuxArgs = append(tmuxArgs, os.Args[1:]...)

	if sessionName != "" {
		fmt.Fprintf(os.Stderr, "not inside tmux, embedding in tmux session %q\n", sessionName)
	} else {
		fmt.Fprintf(os.Stderr, "not inside tmux, embedding in a new tmux session\n")
	}

	if err := syscall.Exec(tmuxPath, tmuxArgs, os.Environ()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not embed in tmux: %v\n", err)
		fmt.Fprintf(os.Stderr, "use --no-embed to suppress this warning\n")
	}
}
