package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tata-ai/tata/pkg/version"
)

// NewVersionCmd creates a new version command
func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information about the tata binary`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version.String())
				return
			}
			fmt.Fprintf(out, "Version: %s\n", version.Version)
			fmt.Fprintf(out, "Git Commit: %s\n", version.GitCommit)
			fmt.Fprintf(out, "Build Time: %s\n", version.BuildTime)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print a single line")

	return cmd
}
