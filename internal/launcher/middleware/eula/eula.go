package eula

import (
	"log/slog"
	"os"

	"github.com/kofuk/mclaunch/internal/launcher/core"
)

type EulaMiddleware struct{}

var _ core.Middleware = (*EulaMiddleware)(nil)

func NewEulaMiddleware() *EulaMiddleware {
	return &EulaMiddleware{}
}

func createEulaFile(path string) error {
	eulaFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer eulaFile.Close()
	_, err = eulaFile.WriteString("eula=true")
	return err
}

// Wrap signs eula.txt only when the operator accepted the EULA in the settings. The
// server refuses to start otherwise, which is left for the server to report.
func (m *EulaMiddleware) Wrap(next core.HandlerFunc) core.HandlerFunc {
	return func(c core.LauncherContext) error {
		path := c.Env().GetDataPath("eula.txt")

		if c.Settings().AcceptEula {
			if err := createEulaFile(path); err != nil {
				return err
			}
		} else if _, err := os.Stat(path); os.IsNotExist(err) {
			slog.Warn("eula.txt is missing. Set MCLAUNCH_ACCEPT_EULA to accept the Minecraft EULA", slog.String("path", path))
		}

		return next(c)
	}
}
