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

// ZshParser implements Parser for zsh history files.
type ZshParser struct {
	// SkipCommands lists first words whose commands are dropped.
	SkipCommands []string
}

// NewZshParser creates a new ZshParser.
func NewZshParser() *ZshParser {
	return &ZshParser{}
}

// Matches ": 1616420000:0;cmd" (EXTENDED_HISTORY) and the ":1616420000:0:cmd" variant.
var zshEntry = regexp.MustCompile(`^: ?(\d+):(\d+)[;:](.*)$`)

// Parse reads the zsh history file at the given path and returns parsed history lines.
//
// Extended entries carry a timestamp; plain entries are one command per line.
// A trailing backslash continues the command on the next line:
//
//	: 1616420000:0;ls -la
//	: 1616420200:0;echo "multi\
//	line"
func (p *ZshParser) Parse(path string) ([]HistoryLine, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zsh history: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []HistoryLine
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current strings.Builder
	var currentTimestamp time.Time
	var pending, continued bool

	flush := func() {
		if !pending {
			return
		}
		cmd := strings.TrimSpace(current.String())
		if !skipCommand(p.SkipCommands, cmd) {
			lines = append(lines, HistoryLine{
				Timestamp: currentTimestamp,
				Command:   cmd,
				Shell:     "zsh",
			})
		}
		current.Reset()
		pending = false
	}

	for scanner.Scan() {
		line := scanner.Text()

		if continued {
			current.WriteString("\n")
		} else {
			flush()
			if strings.TrimSpace(line) == "" {
				continue
			}
			if matches := zshEntry.FindStringSubmatch(line); matches != nil {
				currentTimestamp = time.Time{}
				if ts, err := strconv.ParseInt(matches[1], 10, 64); err == nil {
					currentTimestamp = time.Unix(ts, 0)
				}
				line = matches[3]
			} else {
				currentTimestamp = time.Time{}
			}
			pending = true
		}

		continued = strings.HasSuffix(line, "\\")
		if continued {
			line = strings.TrimSuffix(line, "\\")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading zsh history: %w", err)
	}

	return lines, nil
}

// DetectPath returns the default path to the zsh history file.
func (p *ZshParser) DetectPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return detectPath(zshLocations(home)), nil
}

// ParseZsh is a convenience function that creates a ZshParser and parses the given path.
func ParseZsh(path string) ([]HistoryLine, error) {
	return NewZshParser().Parse(path)
}
