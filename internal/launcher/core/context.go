package core

import (
	"context"

	"github.com/kofuk/mclaunch/internal/config"
	"github.com/kofuk/mclaunch/internal/env"
	"github.com/kofuk/mclaunch/internal/gameconfig"
)

type LauncherContext interface {
	Context() context.Context
	Settings() *config.Settings
	Config() *gameconfig.Config
	Env() env.PathProvider
	Plan() *Plan
}

type launcherContext struct {
	ctx      context.Context
	settings *config.Settings
	config   *gameconfig.Config
	env      env.PathProvider
	plan     *Plan
}

var _ LauncherContext = (*launcherContext)(nil)

func (c *launcherContext) Context() context.Context {
	return c.ctx
}

func (c *launcherContext) Settings() *config.Settings {
	return c.settings
}

func (c *launcherContext) Config() *gameconfig.Config {
	return c.config
}

func (c *launcherContext) Env() env.PathProvider {
	return c.env
}

func (c *launcherContext) Plan() *Plan {
	return c.plan
}
