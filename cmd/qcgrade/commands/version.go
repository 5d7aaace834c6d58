package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set with -ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "qcgrade version %s (commit: %s)\n", Version, Commit)
		},
	}
}
