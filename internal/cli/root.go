// Package cli provides Cobra command definitions for rlfzf.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the rlfzf command tree.
func NewRootCommand(version, commit, date, builtBy string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rlfzf",
		Short: "Fuzzy history search for readline programs",
		Long: `rlfzf replaces the incremental history search (Ctrl-R / Ctrl-S) of any
program that uses GNU readline with an external fuzzy filter such as fzf.

It works by preloading a small shared library into the program. Use
"rlfzf wrap" to run one program that way, or "rlfzf env" to print shell
aliases that wrap your usual readline programs.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	AddGlobalFlags(rootCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(NewWrapCommand())
	rootCmd.AddCommand(NewEnvCommand())
	rootCmd.AddCommand(NewPickCommand())
	rootCmd.AddCommand(NewDoctorCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand(version, commit, date, builtBy))

	return rootCmd
}
