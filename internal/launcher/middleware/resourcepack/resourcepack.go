package resourcepack

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/kofuk/mclaunch/internal/launcher/core"
	"github.com/kofuk/mclaunch/internal/netutil"
	"github.com/kofuk/mclaunch/internal/stage"
)

type ResourcePackMiddleware struct {
	stager *stage.Stager
}

var _ core.Middleware = (*ResourcePackMiddleware)(nil)

func NewResourcePackMiddleware(stager *stage.Stager) *ResourcePackMiddleware {
	return &ResourcePackMiddleware{
		stager: stager,
	}
}

// DownloadURL is where players fetch a pack named name from the embedded file server.
func DownloadURL(host string, port int, name string) string {
	u := url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + name,
	}
	return u.String()
}

func (m *ResourcePackMiddleware) stage(c core.LauncherContext) error {
	plan := c.Plan()
	source := plan.Map.ResourcePack()
	if source == "" {
		slog.Info("No resource pack for this map")
		return nil
	}

	settings := c.Settings()
	webRoot := c.Env().GetDataPath(settings.WebRoot)
	if err := os.MkdirAll(webRoot, 0755); err != nil {
		return err
	}

	dest := c.Env().GetDataPath(settings.WebRoot, settings.ResourcePackName)
	staged, err := m.stager.StageResourcePack(c.Context(), source, dest)
	if err != nil {
		return fmt.Errorf("map %q: %w", plan.Map.Name, err)
	}
	if !staged {
		return nil
	}

	plan.ResourcePack = dest
	plan.ResourcePackURL = DownloadURL(netutil.AdvertisedAddress(settings.AdvertiseHost), settings.WebPort, settings.ResourcePackName)
	slog.Info("Resource pack will be served", slog.String("url", plan.ResourcePackURL))

	return nil
}

func (m *ResourcePackMiddleware) Wrap(next core.HandlerFunc) core.HandlerFunc {
	return func(c core.LauncherContext) error {
		if err := m.stage(c); err != nil {
			return err
		}
		return next(c)
	}
}
