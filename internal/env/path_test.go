package env_test

import (
	"path/filepath"
	"testing"

	"github.com/kofuk/mclaunch/internal/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDataPath(t *testing.T) {
	provider := env.NewPathProvider("/srv/mc", "tmp")

	assert.Equal(t, "/srv/mc/server.properties", provider.GetDataPath("server.properties"))
	assert.Equal(t, "/srv/mc/www/ressources.zip", provider.GetDataPath("www", "ressources.zip"))
	assert.Equal(t, "/opt/java/bin", provider.GetDataPath("/opt/java/bin"))
	assert.Equal(t, "/srv/mc/tmp", provider.GetTempDir())
}

func TestMkdirTemp(t *testing.T) {
	base := t.TempDir()
	provider := env.NewPathProvider(base, "tmp")

	first, err := env.MkdirTemp(provider)
	require.NoError(t, err)
	second, err := env.MkdirTemp(provider)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.DirExists(t, first)
	assert.Equal(t, filepath.Join(base, "tmp"), filepath.Dir(first))
}
