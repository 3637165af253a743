// Package cli implements the abacus command-line interface: the interactive
// calculator shell and its one-shot subcommands.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/abacus/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values shared by all subcommands.
type rootFlags struct {
	configDir string
	baseDir   string
	format    string
}

// NewRootCmd creates the top-level "abacus" command with global flags and
// all subcommands registered. Running it without a subcommand starts the
// interactive shell.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "abacus",
		Short: "An interactive decimal calculator",
		Long: "Abacus performs exact decimal arithmetic with undo/redo, a bounded\n" +
			"history, and automatic persistence. Run without a subcommand to start\n" +
			"the interactive shell.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: $ABACUS_CONFIG_DIR or the platform config dir)")
	root.PersistentFlags().StringVar(&flags.baseDir, "base-dir", "", "base directory for logs and history (default: $CALCULATOR_BASE_DIR or the platform data dir)")
	root.PersistentFlags().StringVar(&flags.format, "format", "", "history format: csv, jsonl, or sqlite")

	root.AddCommand(newCalcCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newInitCmd(flags))
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Error.Render("Error: "+err.Error()))
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps an error to a process exit code. Input, operation, and
// configuration problems are user errors; anything else is a system error.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrOperation),
		errors.Is(err, types.ErrConfiguration):
		return exitUserError
	default:
		return exitSysError
	}
}
