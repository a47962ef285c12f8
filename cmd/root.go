package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags.
	flagMux      string
	flagTmuxBin  string
	flagSocket   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "tmux-marks",
	Short: "Jump to files in the editor of the tmux session that owns them",
	Long: `tmux-marks keeps an inventory of tmux sessions, windows and panes and
knows which windows run vim or neovim.

Given a file path it finds the session whose window directory is the longest
prefix of the path, switches the tmux client there and makes the editor open
the file at a line. Marks (file + line bookmarks) live in a running picker
or serve process and are reachable over a unix socket.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMux, "mux", envOrDefault("TMUX_MARKS_MUX", ""), "terminal multiplexer: tmux (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&flagTmuxBin, "tmux-bin", "", "tmux binary (default: from config, then \"tmux\")")
	rootCmd.PersistentFlags().StringVar(&flagSocket, "socket", "", "control socket path (default: from config, then $XDG_RUNTIME_DIR/tmux-marks/control.sock)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
