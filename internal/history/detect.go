package history

import (
	"os"
	"path/filepath"
	"strings"
)

// DetectHistoryFiles returns all found shell history files.
// $HISTFILE is checked first, then common locations for bash and zsh.
func DetectHistoryFiles() []string {
	var found []string
	seen := make(map[string]bool)
	add := func(path string) {
		if path == "" || seen[path] {
			return
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			seen[path] = true
			found = append(found, path)
		}
	}

	add(os.Getenv("HISTFILE"))

	home, err := os.UserHomeDir()
	if err != nil {
		return found
	}

	for _, path := range bashLocations(home) {
		add(path)
	}
	for _, path := range zshLocations(home) {
		add(path)
	}

	return found
}

func bashLocations(home string) []string {
	return []string{
		filepath.Join(home, ".bash_history"),
		filepath.Join(home, ".local/share/bash/history"),
	}
}

func zshLocations(home string) []string {
	return []string{
		filepath.Join(home, ".zsh_history"),
		filepath.Join(home, ".zhistory"),
		filepath.Join(home, ".histfile"),
	}
}

// detectPath returns $HISTFILE, the first existing candidate, or the first
// candidate when none exists.
func detectPath(candidates []string) string {
	if env := os.Getenv("HISTFILE"); env != "" {
		return env
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return candidates[0]
}

// DetectShell attempts to detect the user's current shell from environment.
func DetectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return strings.TrimPrefix(filepath.Base(shell), "-")
	}
	return "bash"
}

// NewParser creates a Parser for the given shell type.
// Returns nil if the shell is not supported.
func NewParser(shell string) Parser {
	switch shell {
	case "bash":
		return NewBashParser()
	case "zsh":
		return NewZshParser()
	default:
		return nil
	}
}
