package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/abacus/internal/calculation"
)

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var jsonMode bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the persisted calculation history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.loadErr != nil {
				return a.loadErr
			}

			calcs := a.mgr.History()
			out := cmd.OutOrStdout()

			if jsonMode {
				records := make([]calculation.Record, len(calcs))
				for i, c := range calcs {
					records[i] = c.ToRecord()
				}
				data, err := json.MarshalIndent(records, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal history: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			if len(calcs) == 0 {
				fmt.Fprintln(out, "No calculations performed yet.")
				return nil
			}
			for i, c := range calcs {
				fmt.Fprintf(out, "%d. %s\n", i+1, c)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output records as JSON")
	return cmd
}
