package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/timvw/tmux-marks/internal/config"
	"github.com/timvw/tmux-marks/internal/control"
	"github.com/timvw/tmux-marks/internal/engine"
	"github.com/timvw/tmux-marks/internal/inventory"
	"github.com/timvw/tmux-marks/internal/logging"
	"github.com/timvw/tmux-marks/internal/mux"
	telem "github.com/timvw/tmux-marks/internal/otel"
	"github.com/timvw/tmux-marks/internal/picker"
	"github.com/timvw/tmux-marks/internal/runner"
)

var (
	_ control.Engine = (*engine.Engine)(nil)
	_ picker.Engine  = (*engine.Engine)(nil)
)

// app is the per-invocation wiring: config, logging, telemetry and engine.
type app struct {
	cfg     *config.Config
	tel     *telem.Telemetry
	metrics *telem.Metrics
	engine  *engine.Engine

	closeLog func() error
}

// loadConfig loads the config file and environment, then applies global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if flagTmuxBin != "" {
		cfg.TmuxBin = flagTmuxBin
	}
	if flagSocket != "" {
		cfg.SocketPath = flagSocket
	}
	if cfg.SocketPath == "" {
		cfg.SocketPath = control.DefaultSocketPath()
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}

// newApp loads configuration, installs logging and telemetry and builds the
// engine. Long-running commands pass logging.SinkFile because the terminal
// belongs to the UI.
func newApp(ctx context.Context, sink logging.Sink) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	closeLog, err := logging.Init(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Sink:    sink,
		File:    cfg.LogFile,
		Version: Version,
	})
	if err != nil {
		return nil, err
	}
	if cfg.ConfigFile != "" {
		slog.Debug("config loaded", "file", cfg.ConfigFile)
	}

	// Wire build version into OTEL service metadata
	telem.Version = Version

	a := &app{cfg: cfg, closeLog: closeLog}

	// Initialize OTEL (no-op if no endpoint configured)
	tel, err := telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: otel init failed: %v\n", err)
	}
	if tel != nil {
		a.tel = tel
		a.metrics = tel.Metrics
	}

	m, err := a.multiplexer(ctx)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.engine = engine.New(m, engine.Options{
		Inventory: inventory.Options{
			EditorPattern:   cfg.EditorRegexp,
			WindowBaseIndex: cfg.WindowBaseIndex,
		},
		Metrics: a.metrics,
	})
	return a, nil
}

// multiplexer returns the configured or auto-detected multiplexer.
func (a *app) multiplexer(ctx context.Context) (mux.Multiplexer, error) {
	r := runner.NewExec(a.cfg.CommandTimeoutDuration)
	r.Metrics = a.metrics
	if flagMux != "" {
		return mux.FromName(flagMux, r, a.cfg.TmuxBin)
	}
	return mux.Detect(ctx, r, a.cfg.TmuxBin)
}

// Close flushes telemetry and the log sink.
func (a *app) Close(ctx context.Context) {
	if a.tel != nil {
		a.tel.Shutdown(ctx)
	}
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}
