package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/abacus/internal/calculation"
	"github.com/mesh-intelligence/abacus/internal/history"
)

func newCalcCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "calc <operation> <a> <b>",
		Short: "Perform a single calculation",
		Long: "Perform one operation on two operands and print the result. The\n" +
			"calculation is appended to the persisted history when auto-save is on.\n" +
			"Use \"--\" before negative operands, e.g. abacus calc add -- -2 5.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.mgr.PerformOperation(args[0], args[1], args[2])
			var notifyErr *history.NotifyError
			if err != nil && !errors.As(err, &notifyErr) {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), calculation.FormatDecimal(result, a.cfg.Precision))
			if notifyErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), styles.Warning.Render("Warning: "+err.Error()))
			}
			return nil
		},
	}
}
