// Package config provides configuration management for rlfzf.
//
// The configuration is stored in TOML format and supports validation
// and default values for all fields. The preload library reads it once
// when it is loaded; the CLI reads it per command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config is the top-level configuration struct for rlfzf.
type Config struct {
	Selector  SelectorConfig  `toml:"selector" yaml:"selector"`
	History   HistoryConfig   `toml:"history" yaml:"history"`
	Intercept InterceptConfig `toml:"intercept" yaml:"intercept"`
	Log       LogConfig       `toml:"log" yaml:"log"`
	Library   LibraryConfig   `toml:"library" yaml:"library"`
	Wrap      WrapConfig      `toml:"wrap" yaml:"wrap"`
}

// SelectorConfig contains settings for the external fuzzy filter.
type SelectorConfig struct {
	// Command is the selector executable (default: "fzf").
	Command string `toml:"command" yaml:"command"`

	// ExtraArgs are appended after "+m --tac --print0".
	ExtraArgs []string `toml:"extra_args" yaml:"extra_args"`
}

// HistoryConfig controls how history is trimmed before it reaches the selector.
type HistoryConfig struct {
	// MaxLines keeps only the newest N lines (0 = all).
	MaxLines int `toml:"max_lines" yaml:"max_lines"`

	// RemoveDuplicates drops repeated lines, keeping the newest occurrence.
	RemoveDuplicates bool `toml:"remove_duplicates" yaml:"remove_duplicates"`
}

// InterceptConfig controls the overridden search commands.
type InterceptConfig struct {
	// Enabled routes searches to the selector; when false the original
	// incremental search runs.
	Enabled bool `toml:"enabled" yaml:"enabled"`

	// OnCancel is what happens when the selector is dismissed.
	// Valid values: "refresh", "original".
	OnCancel string `toml:"on_cancel" yaml:"on_cancel"`

	// OnError is what happens when the selector cannot run.
	// Valid values: "original", "fail".
	OnError string `toml:"on_error" yaml:"on_error"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Path is the log file; empty disables logging.
	Path string `toml:"path" yaml:"path"`

	// Level is one of: debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`

	// Format is one of: text, json.
	Format string `toml:"format" yaml:"format"`
}

// LibraryConfig locates the preload library.
type LibraryConfig struct {
	// Path is the shared library; empty means auto-detect.
	Path string `toml:"path" yaml:"path"`
}

// WrapConfig lists programs that get wrapper aliases in shell snippets.
type WrapConfig struct {
	Programs []string `toml:"programs" yaml:"programs"`
}

// DefaultConfig returns a Config with all default values set.
func DefaultConfig() *Config {
	return &Config{
		Selector: SelectorConfig{
			Command:   "fzf",
			ExtraArgs: []string{},
		},
		History: HistoryConfig{
			MaxLines:         0,
			RemoveDuplicates: false,
		},
		Intercept: InterceptConfig{
			Enabled:  true,
			OnCancel: "refresh",
			OnError:  "original",
		},
		Log: LogConfig{
			Path:   "",
			Level:  "info",
			Format: "text",
		},
		Library: LibraryConfig{
			Path: "",
		},
		Wrap: WrapConfig{
			Programs: []string{"python3", "psql", "sqlite3", "gdb"},
		},
	}
}

// Validate checks the configuration for valid values.
// Returns a nil error if the config is valid, or an error describing the problem.
func (c *Config) Validate() error {
	if c.Selector.Command == "" {
		return fmt.Errorf("selector.command cannot be empty")
	}

	if c.History.MaxLines < 0 {
		return fmt.Errorf("history.max_lines must be >= 0; got %d", c.History.MaxLines)
	}

	validOnCancel := map[string]bool{
		"refresh":  true,
		"original": true,
	}
	if !validOnCancel[c.Intercept.OnCancel] {
		return fmt.Errorf("intercept.on_cancel must be one of: refresh, original; got %q", c.Intercept.OnCancel)
	}
	validOnError := map[string]bool{
		"original": true,
		"fail":     true,
	}
	if !validOnError[c.Intercept.OnError] {
		return fmt.Errorf("intercept.on_error must be one of: original, fail; got %q", c.Intercept.OnError)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}
	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("log.format must be one of: text, json; got %q", c.Log.Format)
	}

	for _, p := range c.Wrap.Programs {
		if p == "" || filepath.Base(p) != p {
			return fmt.Errorf("wrap.programs entries must be bare program names; got %q", p)
		}
	}

	return nil
}

// LibraryFileName is the platform file name of the preload library.
func LibraryFileName(goos string) string {
	if goos == "darwin" {
		return "librlfzf.dylib"
	}
	return "librlfzf.so"
}

// LibraryCandidates lists where the preload library is looked for when
// library.path is unset: next to the executable, in ../lib relative to it,
// and under ~/.local/lib.
func LibraryCandidates(goos, executable string) []string {
	name := LibraryFileName(goos)
	var out []string
	if executable != "" {
		dir := filepath.Dir(executable)
		out = append(out,
			filepath.Join(dir, name),
			filepath.Join(dir, "..", "lib", name),
		)
	}
	if home, err := os.UserHomeDir(); err == nil {
		out = append(out, filepath.Join(home, ".local", "lib", name))
	}
	return out
}
