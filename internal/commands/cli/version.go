package cli

import (
	"fmt"

	"github.com/kofuk/mclaunch/internal/metadata"
	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version (in machine-readable way) and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), metadata.Revision)
		},
	}
}
