package serverproperties

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/kofuk/mclaunch/internal/launcher/core"
	"github.com/kofuk/mclaunch/internal/mc/properties"
)

type ServerPropertiesMiddleware struct{}

var _ core.Middleware = (*ServerPropertiesMiddleware)(nil)

func NewServerPropertiesMiddleware() *ServerPropertiesMiddleware {
	return &ServerPropertiesMiddleware{}
}

func load(path string) (*properties.Document, error) {
	doc, err := properties.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("server.properties not found. Creating a new one", slog.String("path", path))
		return properties.New(), nil
	}
	return doc, err
}

func (m *ServerPropertiesMiddleware) updateServerPropertiesFile(c core.LauncherContext) error {
	path := c.Env().GetDataPath(c.Settings().PropertiesPath)
	doc, err := load(path)
	if err != nil {
		return err
	}

	plan := c.Plan()
	if plan.ResourcePack != "" {
		doc.Set("require-resource-pack", "true")
		doc.Set("resource-pack", plan.ResourcePackURL)
	} else {
		doc.Set("require-resource-pack", "false")
		doc.Set("resource-pack", "")
	}
	doc.Set("level-name", plan.Slug)

	if err := doc.Save(path); err != nil {
		return err
	}
	plan.Properties = doc

	return nil
}

func (m *ServerPropertiesMiddleware) Wrap(next core.HandlerFunc) core.HandlerFunc {
	return func(c core.LauncherContext) error {
		if err := m.updateServerPropertiesFile(c); err != nil {
			return fmt.Errorf("failed to update server.properties file: %w", err)
		}
		return next(c)
	}
}
