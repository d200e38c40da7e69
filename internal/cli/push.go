package cli

import (
	"fmt"

	"github.com/dukerupert/homebase/internal/push"
	"github.com/spf13/cobra"
)

// NewPushCommand creates the push command group.
func NewPushCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Web push helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "keys",
		Short: "Generate a VAPID key pair",
		Long: `Generate a VAPID key pair for web push. Put the output in the
environment or in the push section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, priv, err := push.GenerateVAPIDKeys()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "HOMEBASE_VAPID_PUBLIC_KEY=%s\n", pub)
			fmt.Fprintf(out, "HOMEBASE_VAPID_PRIVATE_KEY=%s\n", priv)
			return nil
		},
	})
	return cmd
}
