package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kofuk/mclaunch/internal/stage"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	ConfigPath string
	WorkDir    string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "mclaunch",
		Short:         "Prepare and launch a Minecraft server for one of the configured maps",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(slog.Default().With(slog.String("command", cmd.Name())))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the map table (config.json or .yaml)")
	flags.StringVarP(&opts.WorkDir, "workdir", "C", "", "Directory the server runs in")

	cmd.AddCommand(
		NewRunCommand(opts),
		NewMapsCommand(opts),
		NewResolveCommand(opts),
		NewSlugCommand(),
		NewRconCommand(opts),
		NewWorldsCommand(opts),
		NewVersionCommand(),
	)

	return cmd
}

// Run executes the command line and returns the process exit status.
func Run(ctx context.Context, args []string) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, stage.ErrOperatorAborted) {
			slog.Info("Program aborted")
			return 0
		}
		slog.Error("Command failed", slog.Any("error", err))
		return 1
	}

	return 0
}
