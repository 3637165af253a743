package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/abacus/pkg/abacus"
)

const modulePath = "github.com/mesh-intelligence/abacus"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the abacus version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "abacus v%s\nmodule: %s\n", abacus.Version, modulePath)
			return nil
		},
	}
}
