package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/chazuruo/rlfzf/internal/config"
	"github.com/chazuruo/rlfzf/internal/errors"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage rlfzf configuration",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigPathCommand())

	return cmd
}

// ConfigInitOptions contains the options for the config init command.
type ConfigInitOptions struct {
	Force bool

	// Scriptable/flag options for --no-tui mode
	Selector string
	OnCancel string
	OnError  string
	MaxLines int
	Dedupe   bool
	LogPath  string
}

func newConfigInitCommand() *cobra.Command {
	opts := &ConfigInitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file",
		Long: `Create the rlfzf configuration file.

The interactive form asks for the selector command, what to do when a
selection is cancelled or the selector fails, and how to trim history.

Use --no-tui with flags for scripted setup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd.OutOrStdout(), opts)
		},
	}

	defaults := config.DefaultConfig()
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing config file")
	cmd.Flags().StringVar(&opts.Selector, "selector", defaults.Selector.Command, "selector command")
	cmd.Flags().StringVar(&opts.OnCancel, "on-cancel", defaults.Intercept.OnCancel, "on cancel: refresh or original")
	cmd.Flags().StringVar(&opts.OnError, "on-error", defaults.Intercept.OnError, "on selector failure: original or fail")
	cmd.Flags().IntVar(&opts.MaxLines, "max-lines", defaults.History.MaxLines, "keep only the newest N history lines (0 = all)")
	cmd.Flags().BoolVar(&opts.Dedupe, "dedupe", defaults.History.RemoveDuplicates, "drop repeated history lines")
	cmd.Flags().StringVar(&opts.LogPath, "log", defaults.Log.Path, "log file (empty disables logging)")

	return cmd
}

func runConfigInit(w io.Writer, opts *ConfigInitOptions) error {
	path := targetConfigPath()
	if path == "" {
		return errors.Wrap(errors.ErrNotFound, "cannot determine config path")
	}
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return errors.Wrap(errors.ErrInvalid, fmt.Sprintf("%s already exists (use --force to overwrite)", path))
	}

	if !IsNoTUI() {
		if err := configForm(opts); err != nil {
			return err
		}
	}

	cfg := config.DefaultConfig()
	cfg.Selector.Command = opts.Selector
	cfg.Intercept.OnCancel = opts.OnCancel
	cfg.Intercept.OnError = opts.OnError
	cfg.History.MaxLines = opts.MaxLines
	cfg.History.RemoveDuplicates = opts.Dedupe
	cfg.Log.Path = opts.LogPath

	if err := cfg.Validate(); err != nil {
		return &errors.ConfigError{Path: path, Err: errors.Join(errors.ErrInvalid, err)}
	}
	if err := config.Write(path, cfg); err != nil {
		return &errors.ConfigError{Path: path, Err: err}
	}

	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

// configForm fills opts interactively, starting from the flag values.
func configForm(opts *ConfigInitOptions) error {
	maxLines := strconv.Itoa(opts.MaxLines)

	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Selector command").
				Description("Fuzzy filter that reads history on stdin (fzf, sk, ...)").
				Value(&opts.Selector),
			huh.NewSelect[string]().
				Title("When the selection is cancelled").
				Options(
					huh.NewOption("Redraw the line and do nothing", "refresh"),
					huh.NewOption("Start the normal incremental search", "original"),
				).
				Value(&opts.OnCancel),
			huh.NewSelect[string]().
				Title("When the selector cannot run").
				Options(
					huh.NewOption("Fall back to the normal incremental search", "original"),
					huh.NewOption("Report failure to the program", "fail"),
				).
				Value(&opts.OnError),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("History lines").
				Description("Keep only the newest N lines (0 = all)").
				Value(&maxLines).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 0 {
						return fmt.Errorf("enter a number >= 0")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Remove duplicate lines?").
				Value(&opts.Dedupe),
			huh.NewInput().
				Title("Log file").
				Description("Leave empty to disable logging").
				Value(&opts.LogPath),
		),
	).Run(); err != nil {
		return fmt.Errorf("form error: %w", err)
	}

	n, err := strconv.Atoi(maxLines)
	if err != nil {
		return errors.Wrap(errors.ErrInvalid, "history lines")
	}
	opts.MaxLines = n
	return nil
}

// ConfigShowOptions contains the options for the config show command.
type ConfigShowOptions struct {
	Format string
}

func newConfigShowCommand() *cobra.Command {
	opts := &ConfigShowOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults and RLFZF_* environment overrides
have been applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "toml", "output format (toml, yaml)")

	return cmd
}

func runConfigShow(w io.Writer, opts *ConfigShowOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg, opts.Format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), targetConfigPath())
			return err
		},
	}
}
