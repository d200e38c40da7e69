package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dukerupert/homebase/internal/ledger"
	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/store"
	"github.com/spf13/cobra"
)

// NewBalanceCommand creates the balance command.
func NewBalanceCommand(rootOpts *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print who owes whom across the active expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			bal, err := store.New(e.db).Expenses.Balance()
			if err != nil {
				return err
			}
			names := map[model.Member]string{
				model.MemberA: e.cfg.Members.A,
				model.MemberB: e.cfg.Members.B,
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"balance": bal.StringFixed(2),
					"settled": ledger.Settled(bal),
					"message": ledger.Describe(bal, names),
				})
			}
			fmt.Fprintln(out, ledger.Describe(bal, names))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the balance as JSON")
	return cmd
}
