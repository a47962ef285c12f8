// Package config loads tmux-marks configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (TMUX_MARKS_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .tmux-marks.yaml in current directory
//  2. ~/.config/tmux-marks/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/timvw/tmux-marks/internal/inventory"
)

// Config holds all tmux-marks configuration.
type Config struct {
	// tmux
	TmuxBin         string `yaml:"tmux_bin"`
	EditorPattern   string `yaml:"editor_pattern"`    // Regexp matched against #{pane_current_command}
	WindowBaseIndex int    `yaml:"window_base_index"` // First window index queried per session
	CommandTimeout  string `yaml:"command_timeout"`   // Go duration string; "0" or "off" disables

	// Control socket
	SocketPath string `yaml:"socket_path"`

	// Picker
	Theme string `yaml:"theme"` // "dark" (default) or "light"

	// Logging
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text or json
	LogFile   string `yaml:"log_file"`   // Used by picker and serve

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// Parsed values (not from YAML, set after loading)
	CommandTimeoutDuration time.Duration  `yaml:"-"`
	EditorRegexp           *regexp.Regexp `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		TmuxBin:        "tmux",
		EditorPattern:  inventory.DefaultEditorPattern,
		CommandTimeout: "5s",
		Theme:          "dark",
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		if err := applyFile(cfg, path, data); err != nil {
			return nil, err
		}
	}

	if err := mergeEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	if data, err := os.ReadFile(".tmux-marks.yaml"); err == nil {
		return ".tmux-marks.yaml", data, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "tmux-marks", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

func applyFile(cfg *Config, path string, data []byte) error {
	// -1 tells an absent window_base_index apart from an explicit 0.
	fileCfg := Config{WindowBaseIndex: -1}
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.ConfigFile = path
	mergeFile(cfg, &fileCfg)
	return nil
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.TmuxBin != "" {
		cfg.TmuxBin = file.TmuxBin
	}
	if file.EditorPattern != "" {
		cfg.EditorPattern = file.EditorPattern
	}
	if file.WindowBaseIndex >= 0 {
		cfg.WindowBaseIndex = file.WindowBaseIndex
	}
	if file.CommandTimeout != "" {
		cfg.CommandTimeout = file.CommandTimeout
	}
	if file.SocketPath != "" {
		cfg.SocketPath = file.SocketPath
	}
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.LogFormat != "" {
		cfg.LogFormat = file.LogFormat
	}
	if file.LogFile != "" {
		cfg.LogFile = file.LogFile
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) error {
	if v := os.Getenv("TMUX_MARKS_TMUX_BIN"); v != "" {
		cfg.TmuxBin = v
	}
	if v := os.Getenv("TMUX_MARKS_EDITOR_PATTERN"); v != "" {
		cfg.EditorPattern = v
	}
	if v := os.Getenv("TMUX_MARKS_WINDOW_BASE_INDEX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TMUX_MARKS_WINDOW_BASE_INDEX %q: %w", v, err)
		}
		cfg.WindowBaseIndex = n
	}
	if v := os.Getenv("TMUX_MARKS_COMMAND_TIMEOUT"); v != "" {
		cfg.CommandTimeout = v
	}
	if v := os.Getenv("TMUX_MARKS_SOCKET"); v != "" {
		cfg.SocketPath = v
	}
	if v := os.Getenv("TMUX_MARKS_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TMUX_MARKS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TMUX_MARKS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TMUX_MARKS_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
	return nil
}

// resolve parses and validates the string settings.
func (c *Config) resolve() error {
	var err error
	c.CommandTimeoutDuration, err = parseDurationOrDisable(c.CommandTimeout, 5*time.Second)
	if err != nil {
		return fmt.Errorf("invalid command timeout %q: %w", c.CommandTimeout, err)
	}
	c.EditorRegexp, err = regexp.Compile(c.EditorPattern)
	if err != nil {
		return fmt.Errorf("invalid editor pattern %q: %w", c.EditorPattern, err)
	}
	if c.WindowBaseIndex < 0 {
		return fmt.Errorf("invalid window base index %d", c.WindowBaseIndex)
	}
	switch c.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("invalid theme %q (want dark or light)", c.Theme)
	}
	return nil
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable" return 0.
// Empty string returns the fallback value.
func parseDurationOrDisable(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
