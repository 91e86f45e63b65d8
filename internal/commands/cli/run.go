package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/kofuk/mclaunch/internal/download"
	webserver "github.com/kofuk/mclaunch/internal/fileserver"
	"github.com/kofuk/mclaunch/internal/launcher/core"
	"github.com/kofuk/mclaunch/internal/launcher/middleware/eula"
	"github.com/kofuk/mclaunch/internal/launcher/middleware/fileserver"
	"github.com/kofuk/mclaunch/internal/launcher/middleware/mapselect"
	"github.com/kofuk/mclaunch/internal/launcher/middleware/resourcepack"
	"github.com/kofuk/mclaunch/internal/launcher/middleware/runtime"
	"github.com/kofuk/mclaunch/internal/launcher/middleware/serverjar"
	"github.com/kofuk/mclaunch/internal/launcher/middleware/serverproperties"
	"github.com/kofuk/mclaunch/internal/launcher/middleware/world"
	"github.com/kofuk/mclaunch/internal/mc/launchermeta"
	"github.com/kofuk/mclaunch/internal/metadata"
	"github.com/kofuk/mclaunch/internal/operator"
	"github.com/kofuk/mclaunch/internal/s3wrap"
	"github.com/kofuk/mclaunch/internal/source"
	"github.com/kofuk/mclaunch/internal/stage"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type runCommand struct {
	opts     *globalOptions
	mapIndex int
}

func NewRunCommand(opts *globalOptions) *cobra.Command {
	r := &runCommand{opts: opts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Stage the chosen map and run the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.Run(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&r.mapIndex, "map", "m", 0, "1-based map ID; asks interactively when omitted")

	return cmd
}

func (r *runCommand) Run(ctx context.Context) error {
	slog.Info("Starting mclaunch", slog.String("revision", metadata.Revision))

	e, err := loadEnvironment(r.opts)
	if err != nil {
		return err
	}
	settings := e.settings

	op := operator.New(os.Stdin, os.Stdout)
	downloader := download.New()

	fetcher := source.New(e.paths,
		source.WithDownloader(downloader),
		source.WithS3(func(ctx context.Context) (source.ObjectGetter, error) {
			return s3wrap.New(ctx, settings.S3ForcePathStyle)
		}),
	)
	defer fetcher.Cleanup()

	stager := stage.NewStager(e.paths, op, stage.WithLocalizer(fetcher))
	meta := launchermeta.New(launchermeta.WithHTTPClient(otelhttp.DefaultClient))

	return newLauncher(e, op, stager, downloader, meta, r.mapIndex).Start(ctx)
}

// newLauncher assembles the chain. It runs mapselect, runtime, world, serverjar,
// resourcepack, serverproperties, eula, fileserver, then the server. The world prompt
// comes before anything is written so that aborting there leaves no trace.
func newLauncher(e *environment, op operator.Operator, stager *stage.Stager, downloader *download.Downloader, meta *launchermeta.Client, mapIndex int) *core.LauncherCore {
	launcher := core.NewLauncherCore(e.settings, e.config, e.paths)
	launcher.Use(fileserver.NewFileServerMiddleware(webserver.WithShutdownGrace(e.settings.WebStopGrace)))
	launcher.Use(eula.NewEulaMiddleware())
	launcher.Use(serverproperties.NewServerPropertiesMiddleware())
	launcher.Use(resourcepack.NewResourcePackMiddleware(stager))
	launcher.Use(serverjar.NewServerJarMiddleware(downloader, meta))
	launcher.Use(world.NewWorldMiddleware(stager))
	launcher.Use(runtime.NewRuntimeMiddleware())
	launcher.Use(mapselect.NewMapSelectMiddleware(op, mapIndex))
	return launcher
}
