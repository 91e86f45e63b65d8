package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var ErrDownloadFailed = errors.New("download failed")

type Downloader struct {
	client *http.Client
}

type Option func(d *Downloader)

func WithHTTPClient(client *http.Client) Option {
	return func(d *Downloader) {
		d.client = client
	}
}

func New(options ...Option) *Downloader {
	d := &Downloader{
		client: otelhttp.DefaultClient,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *Downloader) download(ctx context.Context, url, savePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.CopyN(io.Discard, resp.Body, 10*1024)
		return fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	outFile, err := os.Create(savePath)
	if err != nil {
		io.Copy(io.Discard, resp.Body)
		return err
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return err
	}

	return nil
}

// Fetch saves url to savePath. The body is written next to savePath first and renamed
// into place once complete, so savePath exists only if the whole body arrived.
func (d *Downloader) Fetch(ctx context.Context, url, savePath string) error {
	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return err
	}

	slog.Info("Downloading", slog.String("url", url), slog.String("path", savePath))

	tmpPath := savePath + ".download"
	if err := d.download(ctx, url, tmpPath); err != nil {
		slog.Error("Download did not complete", slog.String("url", url), slog.Any("error", err))
	} else if err := os.Rename(tmpPath, savePath); err != nil {
		return err
	}

	if _, err := os.Stat(savePath); err != nil {
		return fmt.Errorf("%w: %s from %s", ErrDownloadFailed, savePath, url)
	}

	return nil
}
