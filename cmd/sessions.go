package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/tmux-marks/internal/logging"
	"github.com/timvw/tmux-marks/internal/model"
)

var flagJSON bool

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List tmux sessions, windows and editor panes",
	Long: `Refresh the inventory and print every session with its windows.

Sessions marked with * are search roots. Windows running an editor show the
pane index the jump command would type into.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, logging.SinkStderr)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		if err := a.engine.Refresh(ctx); err != nil {
			return err
		}
		sessions := a.engine.ListSessions()

		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sessions)
		}
		for _, s := range sessions {
			printSession(s)
		}
		return nil
	},
}

func printSession(s model.Session) {
	fmt.Println(s.Summary())
	for _, w := range s.Windows {
		editor := ""
		if w.HasEditor && w.EditorPane != nil {
			editor = fmt.Sprintf("  [editor pane %d]", *w.EditorPane)
		}
		fmt.Printf("    %d:%s  %s%s\n", w.Index, w.Name, w.WorkingDirectory, editor)
	}
}

func init() {
	sessionsCmd.Flags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(sessionsCmd)
}
