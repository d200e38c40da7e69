package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dukerupert/homebase/internal/backup"
	"github.com/dukerupert/homebase/internal/store"
	"github.com/spf13/cobra"
)

// NewBackupCommand creates the backup command group.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage encrypted database backups",
	}
	cmd.AddCommand(newBackupNowCommand(rootOpts))
	cmd.AddCommand(newBackupListCommand(rootOpts))
	cmd.AddCommand(newBackupRestoreCommand(rootOpts))
	return cmd
}

func openBackups(opts *RootOptions, cmd *cobra.Command) (*env, *backup.Manager, error) {
	e, err := openEnv(opts, cmd)
	if err != nil {
		return nil, nil, err
	}
	mgr := backup.NewManager(backup.Config{
		S3: backup.S3Config{
			Endpoint:  e.cfg.Backup.S3.Endpoint,
			Bucket:    e.cfg.Backup.S3.Bucket,
			Region:    e.cfg.Backup.S3.Region,
			AccessKey: e.cfg.Backup.S3.AccessKey,
			SecretKey: e.cfg.Backup.S3.SecretKey,
		},
		DBPath:        e.cfg.DBPath,
		Passphrase:    e.cfg.Backup.Passphrase,
		Hour:          e.cfg.Backup.Hour,
		RetentionDays: e.cfg.Backup.RetentionDays,
	}, e.db, store.New(e.db).Backups, e.logger.With("component", "backup"))
	return e, mgr, nil
}

func newBackupNowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Upload a backup immediately",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, mgr, err := openBackups(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			b, err := mgr.RunNow(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backup %d uploaded to %s (%d bytes)\n", b.ID, b.S3Key, b.SizeBytes)
			return nil
		},
	}
}

func newBackupListCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, mgr, err := openBackups(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			backups, err := mgr.List(limit)
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no backups")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tSIZE\tTOOK\tCREATED\tFILE")
			for _, b := range backups {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\n",
					b.ID, b.Status, b.SizeBytes, b.Took().Round(time.Millisecond),
					b.CreatedAt.Local().Format("2006-01-02 15:04"), b.Filename)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of backups to show")
	return cmd
}

func newBackupRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup-id> <dest-path>",
		Short: "Download and decrypt a backup into a new database file",
		Long: `Download and decrypt a backup into dest-path and check its integrity.
The live database is not touched; stop the server and swap the file in
by hand once the restore succeeds.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid backup id %q", args[0])
			}

			e, mgr, err := openBackups(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := mgr.Restore(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backup %d restored to %s\n", id, args[1])
			return nil
		},
	}
}
