package backup

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tata-ai/tata/cmd/common"
)

// NewBackupCmd groups the snapshot commands, which talk to a running server
func NewBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"backup"},
		Short:   "Create and list template snapshots on a running server",
	}
	cmd.AddCommand(newCreateCmd(), newListCmd())
	return cmd
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Write a snapshot of every template now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := common.NewClientFromEnv().CreateSnapshot()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%d bytes)\n", snapshot.Name, snapshot.Size)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshots, err := common.NewClientFromEnv().ListSnapshots()
			if err != nil {
				return err
			}
			if len(snapshots) == 0 {
				fmt.Fprintln(os.Stderr, "No snapshots")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tCREATED")
			for _, s := range snapshots {
				fmt.Fprintf(w, "%s\t%d\t%s\n", s.Name, s.Size, s.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}
