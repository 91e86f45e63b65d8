package runtime

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/kofuk/mclaunch/internal/launcher/core"
)

type RuntimeMiddleware struct{}

var _ core.Middleware = (*RuntimeMiddleware)(nil)

func NewRuntimeMiddleware() *RuntimeMiddleware {
	return &RuntimeMiddleware{}
}

func (m *RuntimeMiddleware) resolve(c core.LauncherContext) error {
	plan := c.Plan()
	if plan.Map == nil {
		return errors.New("no map selected")
	}

	rt, err := c.Config().ResolveRuntime(string(plan.Map.MinecraftVersion))
	if err != nil {
		return fmt.Errorf("map %q: %w", plan.Map.Name, err)
	}

	sub, err := c.Config().ResolveSubRuntime(&rt.Runtime)
	if err != nil {
		return fmt.Errorf("map %q: %w", plan.Map.Name, err)
	}

	plan.Runtime = rt
	plan.SubRuntime = sub
	plan.JavaHome = sub.SubRuntime.Home

	slog.Debug("Runtime resolved",
		slog.String("mc_versions", rt.Expression),
		slog.String("java_versions", sub.Expression),
		slog.String("java_home", plan.JavaHome),
	)
	return nil
}

func (m *RuntimeMiddleware) Wrap(next core.HandlerFunc) core.HandlerFunc {
	return func(c core.LauncherContext) error {
		if err := m.resolve(c); err != nil {
			return err
		}
		return next(c)
	}
}
