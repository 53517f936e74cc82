package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chazuruo/rlfzf/internal/config"
	"github.com/chazuruo/rlfzf/internal/history"
	"github.com/chazuruo/rlfzf/internal/readline"
	"github.com/chazuruo/rlfzf/internal/shellenv"
)

// Check statuses.
const (
	StatusOK   = "ok"
	StatusWarn = "warn"
	StatusFail = "fail"
)

// Check is one doctor result.
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// DoctorOptions contains the options for the doctor command.
type DoctorOptions struct {
	JSON bool
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the rlfzf installation",
		Long: `Check that everything rlfzf needs is in place: the selector on PATH, the
preload library, a valid configuration, the readline binding and a terminal.

Exits with status 1 if any check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "output in JSON format")

	return cmd
}

func runDoctor(w io.Writer, opts *DoctorOptions) error {
	checks := collectChecks()

	if opts.JSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(checks); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	} else {
		printChecks(w, checks)
	}

	for _, c := range checks {
		if c.Status == StatusFail {
			return &ExitError{Code: 1}
		}
	}
	return nil
}

func collectChecks() []Check {
	var checks []Check

	cfg, err := loadConfig()
	if err != nil {
		checks = append(checks, Check{"config", StatusFail, err.Error()})
		cfg = config.DefaultConfig()
	} else {
		detail := targetConfigPath()
		if _, statErr := os.Stat(detail); statErr != nil {
			detail = "defaults (no file at " + detail + ")"
		}
		checks = append(checks, Check{"config", StatusOK, detail})
	}

	if path, err := exec.LookPath(cfg.Selector.Command); err != nil {
		checks = append(checks, Check{"selector", StatusFail, fmt.Sprintf("%s not found on PATH", cfg.Selector.Command)})
	} else {
		checks = append(checks, Check{"selector", StatusOK, path})
	}

	if lib, err := shellenv.FindLibrary("", cfg); err != nil {
		checks = append(checks, Check{"library", StatusFail, err.Error()})
	} else {
		checks = append(checks, Check{"library", StatusOK, lib})
	}

	if readline.Supported {
		checks = append(checks, Check{"binding", StatusOK, "cgo readline binding compiled in"})
	} else {
		checks = append(checks, Check{"binding", StatusWarn, "built without cgo; the library cannot bind to readline"})
	}

	if !cfg.Intercept.Enabled {
		checks = append(checks, Check{"intercept", StatusWarn, "disabled; searches use the original readline commands"})
	} else {
		checks = append(checks, Check{"intercept", StatusOK, fmt.Sprintf("on_cancel=%s on_error=%s", cfg.Intercept.OnCancel, cfg.Intercept.OnError)})
	}

	if files := history.DetectHistoryFiles(); len(files) > 0 {
		checks = append(checks, Check{"history", StatusOK, files[0]})
	} else {
		checks = append(checks, Check{"history", StatusWarn, "no shell history file found (only affects rlfzf pick)"})
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		checks = append(checks, Check{"terminal", StatusOK, "stdin is a terminal"})
	} else {
		checks = append(checks, Check{"terminal", StatusWarn, "stdin is not a terminal; the selector needs one"})
	}

	return checks
}

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Underline(true)
)

func styleStatus(status string) string {
	if IsNoTUI() {
		return status
	}
	switch status {
	case StatusOK:
		return okStyle.Render(status)
	case StatusWarn:
		return warnStyle.Render(status)
	default:
		return failStyle.Render(status)
	}
}

func printChecks(w io.Writer, checks []Check) {
	tbl := table.New("Check", "Status", "Detail").
		WithWriter(w).
		WithWidthFunc(lipgloss.Width)
	if !IsNoTUI() {
		tbl.WithHeaderFormatter(func(format string, vals ...interface{}) string {
			return headerStyle.Render(fmt.Sprintf(format, vals...))
		})
	}
	for _, c := range checks {
		tbl.AddRow(c.Name, styleStatus(c.Status), c.Detail)
	}
	tbl.Print()
}
