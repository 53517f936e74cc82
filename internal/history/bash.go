package history

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// BashParser implements Parser for bash history files.
type BashParser struct {
	// SkipCommands lists first words whose commands are dropped.
	// Empty by default: every command is searchable.
	SkipCommands []string
}

// NewBashParser creates a new BashParser.
func NewBashParser() *BashParser {
	return &BashParser{}
}

var bashTimestamp = regexp.MustCompile(`^#(\d+)$`)

// Parse reads the bash history file at the given path and returns parsed history lines.
// Bash history format varies:
// - With HISTTIMEFORMAT: #timestamp followed by commands on subsequent lines
// - Without HISTTIMEFORMAT: just commands, one per line
//
// Example with timestamps:
//
//	#1616420000
//	ls -la
//	#1616420100
//	git status
func (p *BashParser) Parse(path string) ([]HistoryLine, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bash history: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []HistoryLine
	var currentTimestamp time.Time
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if line == "" {
			continue
		}

		if matches := bashTimestamp.FindStringSubmatch(line); matches != nil {
			if ts, err := strconv.ParseInt(matches[1], 10, 64); err == nil {
				currentTimestamp = time.Unix(ts, 0)
			}
			continue
		}

		// Handle multi-line commands (continuation with \)
		for strings.HasSuffix(line, "\\") {
			line = strings.TrimSuffix(line, "\\")
			line = strings.TrimRight(line, " \t")
			line += "\n"
			if !scanner.Scan() {
				break
			}
			line += scanner.Text()
		}

		line = strings.TrimSpace(line)
		if skipCommand(p.SkipCommands, line) {
			continue
		}

		lines = append(lines, HistoryLine{
			Timestamp: currentTimestamp,
			Command:   line,
			Shell:     "bash",
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading bash history: %w", err)
	}

	return lines, nil
}

// DetectPath returns the default path to the bash history file.
func (p *BashParser) DetectPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return detectPath(bashLocations(home)), nil
}

// skipCommand reports whether cmd is empty or starts with one of skip.
func skipCommand(skip []string, cmd string) bool {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return true
	}
	for _, s := range skip {
		if fields[0] == s {
			return true
		}
	}
	return false
}

// ParseBash is a convenience function that creates a BashParser and parses the given path.
func ParseBash(path string) ([]HistoryLine, error) {
	return NewBashParser().Parse(path)
}
