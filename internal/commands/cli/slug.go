package cli

import (
	"fmt"

	"github.com/kofuk/mclaunch/internal/stage"
	"github.com/spf13/cobra"
)

func NewSlugCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "slug <map name>",
		Short: "Print the folder name a map would be staged under",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), stage.Slugify(args[0]))
			return nil
		},
	}
}
