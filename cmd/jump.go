package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/timvw/tmux-marks/internal/logging"
)

var jumpCmd = &cobra.Command{
	Use:   "jump <path> <line>",
	Short: "Open a file at a line in the editor of its session",
	Long: `Refresh the inventory, resolve <path> to a session and switch the tmux
client to that session's first editor pane. The editor then receives
Escape, ":silent! edit +<line> \"<path>\"" and Enter.

The command does not check whether the editor acted on the keystrokes.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		line, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid line %q: %w", args[1], err)
		}

		a, err := newApp(ctx, logging.SinkStderr)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		target, err := a.engine.Jump(ctx, path, line)
		if err != nil {
			return err
		}
		fmt.Println(target)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jumpCmd)
}
