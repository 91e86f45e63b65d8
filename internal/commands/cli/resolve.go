package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kofuk/mclaunch/internal/gameconfig"
	"github.com/spf13/cobra"
)

func printResolution(out io.Writer, cfg *gameconfig.Config, index int) error {
	m, err := cfg.SelectMap(index)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", headerStyle.Render(fmt.Sprintf("%d : %s", index, m.Name)))

	rt, err := cfg.ResolveRuntime(string(m.MinecraftVersion))
	if err != nil {
		fmt.Fprintf(out, "  error: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "  mc_versions   %-16s %s\n", rt.Expression, rt.Runtime.File)

	sub, err := cfg.ResolveSubRuntime(&rt.Runtime)
	if err != nil {
		fmt.Fprintf(out, "  error: %v\n", err)
		return err
	}
	home := sub.SubRuntime.Home
	if home == "" {
		home = "(update-alternatives)"
	}
	fmt.Fprintf(out, "  java_versions %-16s %s\n", sub.Expression, home)

	return nil
}

// NewResolveCommand shows which runtime each map would use, without touching any file.
func NewResolveCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [map ID]",
		Short: "Show the server jar and Java installation a map would run with",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnvironment(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				index, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid map ID: %s", args[0])
				}
				return printResolution(out, e.config, index)
			}

			var failed error
			for i := range e.config.Maps {
				if err := printResolution(out, e.config, i+1); err != nil && failed == nil {
					failed = err
				}
			}
			return failed
		},
	}
}
