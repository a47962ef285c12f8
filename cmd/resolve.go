package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/timvw/tmux-marks/internal/jump"
	"github.com/timvw/tmux-marks/internal/logging"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Show which session owns a path",
	Long: `Refresh the inventory and print the session whose window working
directory is the longest prefix of <path>. Relative paths are resolved
against the current directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(ctx, logging.SinkStderr)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		if err := a.engine.Refresh(ctx); err != nil {
			return err
		}
		s, ok := a.engine.Resolve(path)
		if !ok {
			return fmt.Errorf("%w: %s", jump.ErrNoMatchingSession, path)
		}

		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}
		printSession(s)
		if !s.HasEditor {
			fmt.Fprintln(os.Stderr, "note: session has no editor pane, jump would fail")
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(resolveCmd)
}
