package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chazuruo/rlfzf/internal/shellenv"
)

// EnvOptions contains the options for the env command.
type EnvOptions struct {
	Shell   string
	Library string
}

// NewEnvCommand creates the env command.
func NewEnvCommand() *cobra.Command {
	opts := &EnvOptions{}

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print shell integration",
		Long: `Print a shell snippet that exports RLFZF_LIB and aliases the programs
listed in [wrap].programs through "rlfzf wrap".

Add it to your shell startup file.`,
		Example: `  # bash / zsh
  eval "$(rlfzf env)"

  # fish
  rlfzf env --shell fish | source`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnv(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Shell, "shell", "", "shell type (bash, zsh, fish). Default: auto-detect")
	cmd.Flags().StringVar(&opts.Library, "lib", "", "path to the preload library")

	return cmd
}

func runEnv(w io.Writer, opts *EnvOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lib, err := shellenv.FindLibrary(opts.Library, cfg)
	if err != nil {
		return err
	}

	shell := opts.Shell
	if shell == "" {
		shell = shellenv.DetectShell()
	}

	snippet, err := shellenv.NewGenerator(lib, cfg.Wrap.Programs).Generate(shell)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, snippet)
	return err
}
