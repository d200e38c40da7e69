package cli

import (
	"fmt"
	"time"

	"github.com/dukerupert/homebase/internal/store"
	"github.com/spf13/cobra"
)

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Move stale events and completed chores to the recycle bin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			sweeper := store.New(e.db).Sweeper(e.cfg.RetentionDays)
			res, err := sweeper.Run(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "swept %d event(s), %d chore(s)\n", res.Events, res.Chores)
			return nil
		},
	}
}
