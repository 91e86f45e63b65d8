package gameconfig

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/kofuk/mclaunch/internal/mc/version"
)

var (
	ErrNoCompatibleRuntime    = errors.New("no compatible Minecraft version in config")
	ErrNoCompatibleSubRuntime = errors.New("no compatible Java version in config")
)

// ResolveRuntime returns the first entry of mc_versions whose range set contains target.
func (c *Config) ResolveRuntime(target string) (*RuntimeEntry, error) {
	v, err := version.Parse(target)
	if err != nil {
		return nil, err
	}

	for i := range c.Runtimes {
		entry := &c.Runtimes[i]
		set, err := version.ParseRangeSet(entry.Expression)
		if err != nil {
			return nil, fmt.Errorf("mc_versions: %w", err)
		}
		if set.Has(v) {
			slog.Info("Selecting Minecraft version", slog.String("key", entry.Expression), slog.String("target", target))
			return entry, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNoCompatibleRuntime, target)
}

// ResolveSubRuntime returns the Java installation for rt. Unlike ResolveRuntime every
// entry is examined and the last matching one wins.
func (c *Config) ResolveSubRuntime(rt *Runtime) (*SubRuntimeEntry, error) {
	v, err := version.Parse(string(rt.JavaVersion))
	if err != nil {
		return nil, err
	}

	var result *SubRuntimeEntry
	for i := range c.SubRuntimes {
		entry := &c.SubRuntimes[i]
		set, err := version.ParseRangeSet(entry.Expression)
		if err != nil {
			return nil, fmt.Errorf("java_versions: %w", err)
		}
		if set.Has(v) {
			slog.Info("Selecting Java version", slog.String("key", entry.Expression), slog.String("required", string(rt.JavaVersion)))
			result = entry
		}
	}

	if result == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoCompatibleSubRuntime, rt.JavaVersion)
	}
	return result, nil
}
