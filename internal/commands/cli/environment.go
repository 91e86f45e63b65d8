package cli

import (
	"fmt"

	"github.com/kofuk/mclaunch/internal/config"
	"github.com/kofuk/mclaunch/internal/env"
	"github.com/kofuk/mclaunch/internal/gameconfig"
)

type environment struct {
	settings *config.Settings
	config   *gameconfig.Config
	paths    env.PathProvider
}

// loadEnvironment reads settings from the environment, lets flags override them, then
// loads the map table and merges its launcher section underneath.
func loadEnvironment(opts *globalOptions) (*environment, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	defaults := config.Default()
	if opts.WorkDir != "" {
		settings.WorkDir = opts.WorkDir
	} else if settings.WorkDir == "" {
		settings.WorkDir = defaults.WorkDir
	}
	if opts.ConfigPath != "" {
		settings.ConfigPath = opts.ConfigPath
	} else if settings.ConfigPath == "" {
		settings.ConfigPath = defaults.ConfigPath
	}

	paths := env.NewPathProvider(settings.WorkDir, defaults.TempDir)

	cfg, err := gameconfig.Load(paths.GetDataPath(settings.ConfigPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := settings.Merge(cfg.Launcher); err != nil {
		return nil, err
	}

	return &environment{
		settings: settings,
		config:   cfg,
		paths:    env.NewPathProvider(settings.WorkDir, settings.TempDir),
	}, nil
}
