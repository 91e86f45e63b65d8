package core

import (
	"context"

	"github.com/kofuk/mclaunch/internal/config"
	"github.com/kofuk/mclaunch/internal/env"
	"github.com/kofuk/mclaunch/internal/gameconfig"
	"github.com/kofuk/mclaunch/internal/supervisor"
	"github.com/kofuk/mclaunch/internal/system"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/kofuk/mclaunch/internal/launcher/core")

type HandlerFunc func(c LauncherContext) error

type Middleware interface {
	Wrap(next HandlerFunc) HandlerFunc
}

type MiddlewareFunc func(next HandlerFunc) HandlerFunc

func (f MiddlewareFunc) Wrap(next HandlerFunc) HandlerFunc {
	return f(next)
}

// StopMiddleware ends the chain without launching anything.
var StopMiddleware = MiddlewareFunc(func(next HandlerFunc) HandlerFunc {
	return func(c LauncherContext) error {
		return nil
	}
})

type LauncherCore struct {
	handler         HandlerFunc
	settings        *config.Settings
	config          *gameconfig.Config
	env             env.PathProvider
	CommandExecutor system.CommandExecutor
	Supervisor      *supervisor.Supervisor
}

func NewLauncherCore(settings *config.Settings, cfg *gameconfig.Config, env env.PathProvider) *LauncherCore {
	launcher := &LauncherCore{
		settings:        settings,
		config:          cfg,
		env:             env,
		CommandExecutor: system.DefaultExecutor,
	}

	launcher.handler = launcher.startMinecraft

	return launcher
}

// Use wraps the current chain in m. The middleware added last runs first.
func (l *LauncherCore) Use(m Middleware) {
	l.handler = m.Wrap(l.handler)
}

func (l *LauncherCore) createContext(ctx context.Context) *launcherContext {
	return &launcherContext{
		ctx:      ctx,
		settings: l.settings,
		config:   l.config,
		env:      l.env,
		plan:     &Plan{},
	}
}

func (l *LauncherCore) Start(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Launch")
	defer span.End()

	return l.handler(l.createContext(ctx))
}
