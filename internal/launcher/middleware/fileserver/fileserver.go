package fileserver

import (
	"errors"
	"log/slog"

	"github.com/kofuk/mclaunch/internal/fileserver"
	"github.com/kofuk/mclaunch/internal/launcher/core"
)

type FileServerMiddleware struct {
	options []fileserver.Option
}

var _ core.Middleware = (*FileServerMiddleware)(nil)

func NewFileServerMiddleware(options ...fileserver.Option) *FileServerMiddleware {
	return &FileServerMiddleware{
		options: options,
	}
}

// Wrap serves the web root while the rest of the chain runs, if a pack was staged.
// The server is handed to the supervisor for shutdown and stopped here again in case
// the chain returns before the supervisor gets to it.
func (m *FileServerMiddleware) Wrap(next core.HandlerFunc) core.HandlerFunc {
	return func(c core.LauncherContext) (err error) {
		plan := c.Plan()
		if plan.ResourcePack == "" {
			return next(c)
		}

		settings := c.Settings()
		server := fileserver.New(m.options...)
		lc := fileserver.NewLifecycle()
		if err := server.Start(c.Env().GetDataPath(settings.WebRoot), settings.WebInterface, settings.WebPort, lc); err != nil {
			return err
		}
		defer func() {
			if stopErr := server.Stop(); stopErr != nil {
				slog.Error("Failed to stop HTTP server", slog.Any("error", stopErr))
				err = errors.Join(err, stopErr)
			}
		}()

		plan.AddAncillary(server)

		return next(c)
	}
}
