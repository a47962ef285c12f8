package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/timvw/tmux-marks/internal/control"
	"github.com/timvw/tmux-marks/internal/inventory"
	"github.com/timvw/tmux-marks/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Hold marks and answer the control socket without a UI",
	Long: `Run the engine headless: marks are kept in memory and the control
socket answers add_mark, remove_mark, list_marks, roots and jump requests
until SIGINT or SIGTERM.

Logs go to the log file (default $XDG_STATE_HOME/tmux-marks/tmux-marks.log).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, logging.SinkFile)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		if err := startControl(ctx, a); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "control socket: listening on %s\n", a.cfg.SocketPath)

		<-ctx.Done()
		slog.Info("serve stopped")
		return nil
	},
}

// startControl runs the first refresh and binds the control socket.
// A refresh failure is logged; the inventory fills on the next request.
func startControl(ctx context.Context, a *app) error {
	if err := a.engine.Refresh(ctx); err != nil && !errors.Is(err, inventory.ErrNoSessionsFound) {
		slog.Warn("initial refresh failed", "err", err)
	}
	srv := control.NewServer(a.engine, a.cfg.SocketPath)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("control socket: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
