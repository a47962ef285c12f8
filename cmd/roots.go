package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/timvw/tmux-marks/internal/control"
	"github.com/timvw/tmux-marks/internal/logging"
)

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "Print search roots, one directory per line",
	Long: `Print the working directories of all windows in selected sessions.

A running picker or serve process is asked first so that sessions toggled
off there are excluded. Without one, every session is selected.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		resp, err := control.NewClient(cfg.SocketPath).Do(ctx, control.Request{Op: control.OpRoots})
		if err == nil {
			printLines(resp.Roots)
			return nil
		}
		if !errors.Is(err, control.ErrNoServer) {
			return err
		}

		a, err := newApp(ctx, logging.SinkStderr)
		if err != nil {
			return err
		}
		defer a.Close(ctx)
		slog.Debug("no running engine, using a fresh inventory")

		roots, err := a.engine.SearchRoots(ctx)
		if err != nil {
			return err
		}
		printLines(roots)
		return nil
	},
}

func printLines(lines []string) {
	for _, l := range lines {
		fmt.Println(l)
	}
}

func init() {
	rootCmd.AddCommand(rootsCmd)
}
