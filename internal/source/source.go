package source

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kofuk/mclaunch/internal/download"
	"github.com/kofuk/mclaunch/internal/env"
	"github.com/kofuk/mclaunch/internal/s3wrap"
	"github.com/kofuk/mclaunch/internal/stage"
)

// ObjectGetter is the part of the S3 client the fetcher needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, loc s3wrap.Location) (*s3wrap.Object, error)
}

// Fetcher makes world and resource pack sources available on the local filesystem.
// Local paths are resolved against the data directory; http(s) and s3 sources are
// copied into scratch directories that Cleanup removes.
type Fetcher struct {
	paths      env.PathProvider
	downloader *download.Downloader
	newS3      func(ctx context.Context) (ObjectGetter, error)

	m       sync.Mutex
	s3      ObjectGetter
	scratch []string
}

var _ stage.Localizer = (*Fetcher)(nil)

type Option func(f *Fetcher)

func WithDownloader(d *download.Downloader) Option {
	return func(f *Fetcher) {
		f.downloader = d
	}
}

// WithS3 sets how the S3 client is created. It is only called once an s3 source is seen.
func WithS3(newClient func(ctx context.Context) (ObjectGetter, error)) Option {
	return func(f *Fetcher) {
		f.newS3 = newClient
	}
}

func New(paths env.PathProvider, options ...Option) *Fetcher {
	f := &Fetcher{
		paths:      paths,
		downloader: download.New(),
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

func (f *Fetcher) s3Client(ctx context.Context) (ObjectGetter, error) {
	f.m.Lock()
	defer f.m.Unlock()

	if f.s3 != nil {
		return f.s3, nil
	}

	newClient := f.newS3
	if newClient == nil {
		newClient = func(ctx context.Context) (ObjectGetter, error) {
			return s3wrap.New(ctx, false)
		}
	}

	client, err := newClient(ctx)
	if err != nil {
		return nil, err
	}
	f.s3 = client
	return client, nil
}

func (f *Fetcher) scratchFile(name string) (string, error) {
	dir, err := env.MkdirTemp(f.paths)
	if err != nil {
		return "", err
	}

	f.m.Lock()
	f.scratch = append(f.scratch, dir)
	f.m.Unlock()

	if name == "" || name == "." || name == "/" {
		name = "source"
	}
	return filepath.Join(dir, name), nil
}

func isHTTP(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (f *Fetcher) Localize(ctx context.Context, source string) (string, error) {
	if isHTTP(source) {
		u, err := url.Parse(source)
		if err != nil {
			return "", err
		}
		dest, err := f.scratchFile(path.Base(u.Path))
		if err != nil {
			return "", err
		}
		if err := f.downloader.Fetch(ctx, source, dest); err != nil {
			return "", err
		}
		return dest, nil
	}

	loc, ok, err := s3wrap.ParseLocation(source)
	if err != nil {
		return "", err
	}
	if ok {
		return f.fetchObject(ctx, loc)
	}

	return f.paths.GetDataPath(source), nil
}

func (f *Fetcher) fetchObject(ctx context.Context, loc s3wrap.Location) (string, error) {
	client, err := f.s3Client(ctx)
	if err != nil {
		return "", err
	}

	dest, err := f.scratchFile(path.Base(loc.Key))
	if err != nil {
		return "", err
	}

	slog.Info("Downloading", slog.String("url", loc.String()), slog.String("path", dest))

	obj, err := client.GetObject(ctx, loc)
	if err != nil {
		return "", err
	}
	defer obj.Body.Close()

	file, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := io.Copy(file, obj.Body); err != nil {
		return "", err
	}

	return dest, nil
}

// Cleanup removes everything the fetcher downloaded.
func (f *Fetcher) Cleanup() {
	f.m.Lock()
	defer f.m.Unlock()

	for _, dir := range f.scratch {
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("Failed to remove scratch directory", slog.String("path", dir), slog.Any("error", err))
		}
	}
	f.scratch = nil
}
