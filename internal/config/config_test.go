package config_test

import (
	"testing"
	"time"

	"github.com/kofuk/mclaunch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MCLAUNCH_WEB_PORT", "8123")
	t.Setenv("MCLAUNCH_RCON_STOP", "true")
	t.Setenv("MCLAUNCH_STOP_GRACE", "5s")

	settings, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8123, settings.WebPort)
	assert.True(t, settings.RconStop)
	assert.Equal(t, 5*time.Second, settings.StopGrace)
	assert.Empty(t, settings.WebRoot)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("MCLAUNCH_WEB_PORT", "eighty")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestMergePrecedence(t *testing.T) {
	settings := config.Settings{WebPort: 8123}

	err := settings.Merge(config.Settings{
		WebPort: 9000,
		WebRoot: "public",
	})
	require.NoError(t, err)

	assert.Equal(t, 8123, settings.WebPort, "environment should win over the config file")
	assert.Equal(t, "public", settings.WebRoot, "config file should win over defaults")
	assert.Equal(t, "server.properties", settings.PropertiesPath)
	assert.Equal(t, "ressources.zip", settings.ResourcePackName)
	assert.Equal(t, 5*time.Second, settings.WebStopGrace)
}
