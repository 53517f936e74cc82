package history

import "time"

// HistoryLine represents a single command read from a shell history file.
type HistoryLine struct {
	Timestamp time.Time
	Command   string
	Shell     string // "bash", "zsh"
}

// Parser defines the interface for shell history file parsers.
type Parser interface {
	Parse(path string) ([]HistoryLine, error)
	DetectPath() (string, error)
}

// FilterOptions specifies trimming applied before lines reach the selector.
type FilterOptions struct {
	MaxLines  int  // Keep only the newest N lines (0 = no limit)
	RemoveDup bool // Drop repeated lines, keeping the newest occurrence
}

// IsZero reports whether the options leave a stream untouched.
func (o FilterOptions) IsZero() bool {
	return o.MaxLines <= 0 && !o.RemoveDup
}
