package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/chazuruo/rlfzf/internal/shellenv"
)

// WrapOptions contains the options for the wrap command.
type WrapOptions struct {
	Library string
}

// execProgram replaces the current process. Tests swap it out.
var execProgram = unix.Exec

// NewWrapCommand creates the wrap command.
func NewWrapCommand() *cobra.Command {
	opts := &WrapOptions{}

	cmd := &cobra.Command{
		Use:   "wrap [--lib PATH] -- PROGRAM [ARGS...]",
		Short: "Run a program with fuzzy history search",
		Long: `Run a readline program with the rlfzf library preloaded.

rlfzf replaces itself with the program, so its exit status is the program's.
The library is taken from --lib, $RLFZF_LIB, [library].path in the config,
or found next to the rlfzf executable.`,
		Example: `  rlfzf wrap -- python3
  rlfzf wrap --lib ~/.local/lib/librlfzf.so -- psql mydb`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrap(opts, args)
		},
	}
	cmd.Flags().SetInterspersed(false)

	cmd.Flags().StringVar(&opts.Library, "lib", "", "path to the preload library")

	return cmd
}

func runWrap(opts *WrapOptions, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lib, err := shellenv.FindLibrary(opts.Library, cfg)
	if err != nil {
		return fmt.Errorf("cannot wrap %s: %w", args[0], err)
	}

	program, err := exec.LookPath(args[0])
	if err != nil {
		return fmt.Errorf("cannot wrap %s: %w", args[0], err)
	}

	env := shellenv.Env(lib, os.Environ())
	if err := execProgram(program, args, env); err != nil {
		return fmt.Errorf("exec %s: %w", program, err)
	}
	return nil
}
