// Package cli provides global state and utilities for CLI commands.
package cli

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/chazuruo/rlfzf/internal/config"
)

var (
	// NoTUI indicates that TUI/interactive mode should be disabled.
	// This is set by the global --no-tui flag.
	NoTUI bool

	// ConfigPath overrides config detection. Set by the global --config flag.
	ConfigPath string

	// globalMutex protects the globals above for concurrent access.
	globalMutex sync.RWMutex
)

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&NoTUI, "no-tui", false,
		"disable TUI/interactive mode; use plain text or JSON output")
	cmd.PersistentFlags().StringVar(&ConfigPath, "config", "",
		"config file path (default: $RLFZF_CONFIG or ~/.config/rlfzf/config.toml)")
}

// IsNoTUI returns true if TUI mode is disabled.
func IsNoTUI() bool {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return NoTUI
}

func configPathFlag() string {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return ConfigPath
}

// loadConfig loads the --config file if given, else the detected one.
func loadConfig() (*config.Config, error) {
	if path := configPathFlag(); path != "" {
		return config.Load(path)
	}
	return config.LoadWithDefaults()
}

// targetConfigPath is where "config init" writes and "config path" points.
func targetConfigPath() string {
	if path := configPathFlag(); path != "" {
		return path
	}
	if path := config.DetectConfigPath(); path != "" {
		return path
	}
	return config.DefaultPath()
}

// ExitError makes the process exit with Code without printing anything.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
