// Package config provides configuration management for rlfzf.
//
// This file contains config loading functionality including:
// - XDG config path detection
// - TOML file parsing
// - Environment variable overrides
// - Validation
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chazuruo/rlfzf/internal/errors"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "RLFZF_CONFIG"

// DefaultPath returns the default config file location:
// $XDG_CONFIG_HOME/rlfzf/config.toml, else ~/.config/rlfzf/config.toml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rlfzf", "config.toml")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "rlfzf", "config.toml")
}

// DetectConfigPath returns the config file to load, or empty string if none exists.
//
// Search order:
// 1. $RLFZF_CONFIG (returned even if missing, so Load reports it)
// 2. DefaultPath()
func DetectConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}

	configPath := DefaultPath()
	if configPath == "" {
		return ""
	}
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	return ""
}

// Load loads a config from the specified path.
// If the file doesn't exist, returns an error.
// After loading, applies environment variable overrides and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &errors.ConfigError{Path: path, Err: errors.Join(errors.ErrNotFound, err)}
	}
	if err != nil {
		return nil, &errors.ConfigError{Path: path, Err: fmt.Errorf("failed to read config file: %w", err)}
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &errors.ConfigError{Path: path, Err: fmt.Errorf("failed to parse config file: %w", err)}
	}

	applyEnvOverrides(cfg)
	expandPaths(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, &errors.ConfigError{Path: path, Err: errors.Join(errors.ErrInvalid, fmt.Errorf("config validation failed: %w", err))}
	}

	return cfg, nil
}

// LoadWithDefaults loads the detected config file, or defaults when none
// exists. Environment overrides apply in both cases and the result is
// validated.
func LoadWithDefaults() (*Config, error) {
	configPath := DetectConfigPath()
	if configPath == "" {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		expandPaths(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, &errors.ConfigError{Err: errors.Join(errors.ErrInvalid, fmt.Errorf("config validation failed: %w", err))}
		}
		return cfg, nil
	}

	return Load(configPath)
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables follow the pattern: RLFZF_<SECTION>_<FIELD>
//
// Examples:
// - RLFZF_SELECTOR_COMMAND overrides [selector].command
// - RLFZF_INTERCEPT_ENABLED overrides [intercept].enabled
// - RLFZF_LOG_PATH overrides [log].path
//
// Boolean fields: use "true"/"false" strings
// List fields: comma-separated values
func applyEnvOverrides(c *Config) {
	applyString := func(key string, target *string) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			*target = val
		}
	}

	applyBool := func(key string, target *bool) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			switch strings.ToLower(val) {
			case "true", "1", "yes", "on":
				*target = true
			case "false", "0", "no", "off":
				*target = false
			}
		}
	}

	applyInt := func(key string, target *int) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
				*target = i
			}
		}
	}

	applyList := func(key string, target *[]string) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			var out []string
			for _, part := range strings.Split(val, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
			*target = out
		}
	}

	// Selector section
	applyString("RLFZF_SELECTOR_COMMAND", &c.Selector.Command)
	applyList("RLFZF_SELECTOR_EXTRA_ARGS", &c.Selector.ExtraArgs)

	// History section
	applyInt("RLFZF_HISTORY_MAX_LINES", &c.History.MaxLines)
	applyBool("RLFZF_HISTORY_REMOVE_DUPLICATES", &c.History.RemoveDuplicates)

	// Intercept section
	applyBool("RLFZF_INTERCEPT_ENABLED", &c.Intercept.Enabled)
	applyString("RLFZF_INTERCEPT_ON_CANCEL", &c.Intercept.OnCancel)
	applyString("RLFZF_INTERCEPT_ON_ERROR", &c.Intercept.OnError)

	// Log section
	applyString("RLFZF_LOG_PATH", &c.Log.Path)
	applyString("RLFZF_LOG_LEVEL", &c.Log.Level)
	applyString("RLFZF_LOG_FORMAT", &c.Log.Format)

	// Library section
	applyString("RLFZF_LIBRARY_PATH", &c.Library.Path)

	// Wrap section
	applyList("RLFZF_WRAP_PROGRAMS", &c.Wrap.Programs)
}

// expandPaths expands ~ to the home directory in path-valued fields.
func expandPaths(c *Config) {
	c.Log.Path = expandHome(c.Log.Path)
	c.Library.Path = expandHome(c.Library.Path)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
		}
	}
	return path
}
