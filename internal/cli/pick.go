package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/chazuruo/rlfzf/internal/errors"
	"github.com/chazuruo/rlfzf/internal/history"
	"github.com/chazuruo/rlfzf/internal/logging"
	"github.com/chazuruo/rlfzf/internal/selector"
	"github.com/chazuruo/rlfzf/internal/shim"
)

// PickOptions contains the options for the pick command.
type PickOptions struct {
	Shell    string
	File     string
	MaxLines int
	Dedupe   bool
}

// NewPickCommand creates the pick command.
func NewPickCommand() *cobra.Command {
	opts := &PickOptions{}

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a line from a shell history file",
		Long: `Run the fuzzy filter over a bash or zsh history file and print the chosen
line. This is the same session the preload library runs, fed from a file.

Exits with status 1 when the selection is cancelled.`,
		Example: `  # Pick from your shell's history
  rlfzf pick

  # Newest 1000 unique commands from a zsh history file
  rlfzf pick --shell zsh --file ~/.zsh_history --max-lines 1000 --dedupe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			return runPick(cmd.Context(), cmd.OutOrStdout(), opts, flags.Changed("max-lines"), flags.Changed("dedupe"))
		},
	}

	cmd.Flags().StringVar(&opts.Shell, "shell", "", "history format (bash, zsh). Default: auto-detect")
	cmd.Flags().StringVar(&opts.File, "file", "", "history file. Default: $HISTFILE or the shell's default")
	cmd.Flags().IntVar(&opts.MaxLines, "max-lines", 0, "keep only the newest N lines (0 = all)")
	cmd.Flags().BoolVar(&opts.Dedupe, "dedupe", false, "drop repeated lines, keeping the newest")

	return cmd
}

func runPick(ctx context.Context, w io.Writer, opts *PickOptions, maxLinesSet, dedupeSet bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	shell := opts.Shell
	if shell == "" {
		shell = history.DetectShell()
	}
	parser := history.NewParser(shell)
	if parser == nil {
		return errors.Wrap(errors.ErrInvalid, fmt.Sprintf("unsupported history format: %s (supported: bash, zsh)", shell))
	}

	path := opts.File
	if path == "" {
		if path, err = parser.DetectPath(); err != nil {
			return err
		}
	}

	lines, err := parser.Parse(path)
	if err != nil {
		return err
	}

	filter := shim.FilterOptions(cfg)
	if maxLinesSet {
		filter.MaxLines = opts.MaxLines
	}
	if dedupeSet {
		filter.RemoveDup = opts.Dedupe
	}

	logger, err := logging.New(shim.LogConfig(cfg))
	if err != nil {
		return err
	}
	defer logger.Close()

	// fzf handles Ctrl-C itself; an interrupt that reaches us ends the session.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	session := selector.New(shim.SelectorOptions(cfg, logger.Logger)...)
	out, err := session.Run(ctx, history.Filter(history.FileSource(lines), filter))
	if err != nil {
		return err
	}
	if out.Kind != selector.Selected {
		return &ExitError{Code: 1}
	}

	_, err = fmt.Fprintln(w, out.Text.String())
	return err
}
