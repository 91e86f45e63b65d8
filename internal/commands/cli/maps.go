package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/kofuk/mclaunch/internal/stage"
	"github.com/spf13/cobra"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

func NewMapsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "maps",
		Short: "List the configured maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnvironment(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render("Maps:"))
			for i, m := range e.config.Maps {
				fmt.Fprintf(out, "  %d : %s (Minecraft %s, folder %s)\n", i+1, m.Name, m.MinecraftVersion, stage.Slugify(m.Name))
			}
			return nil
		},
	}
}
