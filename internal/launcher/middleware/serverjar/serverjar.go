package serverjar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kofuk/mclaunch/internal/download"
	"github.com/kofuk/mclaunch/internal/launcher/core"
	"github.com/kofuk/mclaunch/internal/mc/launchermeta"
)

type ServerJarMiddleware struct {
	downloader *download.Downloader
	meta       *launchermeta.Client
}

var _ core.Middleware = (*ServerJarMiddleware)(nil)

// NewServerJarMiddleware downloads the jar of the resolved runtime when it is missing.
// meta is asked for the official download when the runtime has no url; it may be nil.
func NewServerJarMiddleware(downloader *download.Downloader, meta *launchermeta.Client) *ServerJarMiddleware {
	return &ServerJarMiddleware{
		downloader: downloader,
		meta:       meta,
	}
}

func isJar(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("Failed to open input file", slog.Any("error", err))
		return false
	}
	defer f.Close()

	buf := make([]byte, 4)
	if _, err := io.ReadFull(f, buf); err != nil {
		slog.Error("Failed to read file signature", slog.Any("error", err))
		return false
	}

	return bytes.Equal([]byte{0x50, 0x4b, 0x03, 0x04}, buf)
}

func (m *ServerJarMiddleware) jarPath(c core.LauncherContext) string {
	file := c.Plan().Runtime.Runtime.File
	if filepath.IsAbs(file) {
		return file
	}
	return c.Env().GetDataPath(c.Settings().ServersDir, file)
}

func (m *ServerJarMiddleware) downloadURL(ctx context.Context, c core.LauncherContext) (string, error) {
	if url := c.Plan().Runtime.Runtime.URL; url != "" {
		return url, nil
	}
	if m.meta == nil {
		return "", errors.New("runtime has no url to download the server from")
	}

	release, err := m.meta.FindServerRelease(ctx, string(c.Plan().Map.MinecraftVersion))
	if err != nil {
		return "", err
	}
	return release.URL, nil
}

func (m *ServerJarMiddleware) downloadIfNotExists(c core.LauncherContext) (string, error) {
	path := m.jarPath(c)

	if _, err := os.Stat(path); err == nil {
		slog.Info("Minecraft jar file already exists", slog.String("path", path))
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}

	url, err := m.downloadURL(c.Context(), c)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	slog.Info("Minecraft jar file doesn't exist, downloading...", slog.String("path", path))
	if err := m.downloader.Fetch(c.Context(), url, path); err != nil {
		return "", err
	}
	slog.Info("Download finished", slog.String("path", path))

	return path, nil
}

func (m *ServerJarMiddleware) Wrap(next core.HandlerFunc) core.HandlerFunc {
	return func(c core.LauncherContext) error {
		if c.Plan().Runtime == nil {
			return errors.New("no runtime resolved")
		}

		path, err := m.downloadIfNotExists(c)
		if err != nil {
			return err
		}
		if !isJar(path) {
			slog.Warn("Server file does not look like a jar", slog.String("path", path))
		}
		c.Plan().JarPath = path

		return next(c)
	}
}
