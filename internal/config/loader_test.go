package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/rlfzf/internal/errors"
)

// clearEnv removes every RLFZF_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "RLFZF_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

// TestDetectConfigPath_EnvOverride tests that RLFZF_CONFIG wins even when missing.
func TestDetectConfigPath_EnvOverride(t *testing.T) {
	clearEnv(t)
	want := filepath.Join(t.TempDir(), "custom.toml")
	t.Setenv(EnvConfigPath, want)

	assert.Equal(t, want, DetectConfigPath())
}

// TestDetectConfigPath_XDG tests detection under $XDG_CONFIG_HOME.
func TestDetectConfigPath_XDG(t *testing.T) {
	clearEnv(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	assert.Equal(t, "", DetectConfigPath(), "no file yet")

	path := filepath.Join(xdg, "rlfzf", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	assert.Equal(t, path, DetectConfigPath())
	assert.Equal(t, path, DefaultPath())
}

// TestLoad_ValidConfig tests loading a valid config file.
func TestLoad_ValidConfig(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")

	configContent := `
[selector]
command = "sk"
extra_args = ["--height=40%"]

[history]
max_lines = 500
remove_duplicates = true

[intercept]
on_cancel = "original"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "sk", cfg.Selector.Command)
	assert.Equal(t, []string{"--height=40%"}, cfg.Selector.ExtraArgs)
	assert.Equal(t, 500, cfg.History.MaxLines)
	assert.True(t, cfg.History.RemoveDuplicates)
	assert.Equal(t, "original", cfg.Intercept.OnCancel)

	// Unspecified fields keep defaults
	assert.True(t, cfg.Intercept.Enabled)
	assert.Equal(t, "original", cfg.Intercept.OnError)
	assert.Equal(t, "info", cfg.Log.Level)
}

// TestLoad_InvalidTOML tests that invalid TOML returns an error.
func TestLoad_InvalidTOML(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[selector\ncommand = "), 0644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")

	ce, ok := errors.AsConfigError(err)
	require.True(t, ok)
	assert.Equal(t, configPath, ce.Path)
}

// TestLoad_ValidationFailed tests that an invalid value is reported as ErrInvalid.
func TestLoad_ValidationFailed(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[intercept]\non_error = \"explode\"\n"), 0644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	assert.Contains(t, err.Error(), "intercept.on_error")
}

// TestLoad_FileNotExist tests that a missing file is reported as ErrNotFound.
func TestLoad_FileNotExist(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

// TestEnvOverrides tests every RLFZF_<SECTION>_<FIELD> override.
func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RLFZF_SELECTOR_COMMAND", "sk")
	t.Setenv("RLFZF_SELECTOR_EXTRA_ARGS", "--height=40%, --reverse")
	t.Setenv("RLFZF_HISTORY_MAX_LINES", "1000")
	t.Setenv("RLFZF_HISTORY_REMOVE_DUPLICATES", "yes")
	t.Setenv("RLFZF_INTERCEPT_ENABLED", "0")
	t.Setenv("RLFZF_INTERCEPT_ON_CANCEL", "original")
	t.Setenv("RLFZF_INTERCEPT_ON_ERROR", "fail")
	t.Setenv("RLFZF_LOG_PATH", "/tmp/rlfzf.log")
	t.Setenv("RLFZF_LOG_LEVEL", "debug")
	t.Setenv("RLFZF_LOG_FORMAT", "json")
	t.Setenv("RLFZF_LIBRARY_PATH", "/opt/lib/librlfzf.so")
	t.Setenv("RLFZF_WRAP_PROGRAMS", "psql,,mysql")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "sk", cfg.Selector.Command)
	assert.Equal(t, []string{"--height=40%", "--reverse"}, cfg.Selector.ExtraArgs)
	assert.Equal(t, 1000, cfg.History.MaxLines)
	assert.True(t, cfg.History.RemoveDuplicates)
	assert.False(t, cfg.Intercept.Enabled)
	assert.Equal(t, "original", cfg.Intercept.OnCancel)
	assert.Equal(t, "fail", cfg.Intercept.OnError)
	assert.Equal(t, "/tmp/rlfzf.log", cfg.Log.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/opt/lib/librlfzf.so", cfg.Library.Path)
	assert.Equal(t, []string{"psql", "mysql"}, cfg.Wrap.Programs)
}

// TestEnvOverrides_IgnoredValues tests that empty and unparsable values leave defaults.
func TestEnvOverrides_IgnoredValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("RLFZF_SELECTOR_COMMAND", "")
	t.Setenv("RLFZF_HISTORY_MAX_LINES", "lots")
	t.Setenv("RLFZF_INTERCEPT_ENABLED", "maybe")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "fzf", cfg.Selector.Command)
	assert.Equal(t, 0, cfg.History.MaxLines)
	assert.True(t, cfg.Intercept.Enabled)
}

// TestLoadWithDefaults_NoFile tests that defaults plus env are used without a file.
func TestLoadWithDefaults_NoFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("RLFZF_INTERCEPT_ENABLED", "false")

	cfg, err := LoadWithDefaults()
	require.NoError(t, err)
	assert.False(t, cfg.Intercept.Enabled)
	assert.Equal(t, "fzf", cfg.Selector.Command)
}

// TestLoadWithDefaults_InvalidEnv tests that a bad override fails validation.
func TestLoadWithDefaults_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("RLFZF_LOG_LEVEL", "verbose")

	_, err := LoadWithDefaults()
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

// TestLoad_ExpandsHome tests that ~ in path fields is expanded.
func TestLoad_ExpandsHome(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[log]\npath = \"~/rlfzf.log\"\n"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "rlfzf.log"), cfg.Log.Path)
}

// TestWriteAndLoad tests that a written config loads back unchanged.
func TestWriteAndLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Selector.ExtraArgs = []string{"--exact"}
	cfg.History.MaxLines = 42
	require.NoError(t, Write(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

// TestMarshal tests the supported output formats.
func TestMarshal(t *testing.T) {
	cfg := DefaultConfig()

	data, err := Marshal(cfg, "toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "[selector]")
	assert.Contains(t, string(data), `command = "fzf"`)

	data, err = Marshal(cfg, "yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "selector:")
	assert.Contains(t, string(data), "on_cancel: refresh")

	_, err = Marshal(cfg, "ini")
	assert.Error(t, err)
}
