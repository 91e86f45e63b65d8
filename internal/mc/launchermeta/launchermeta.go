package launchermeta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	mojangManifest = "https://launchermeta.mojang.com/mc/game/version_manifest.json"
)

var (
	ErrUnknownVersion  = errors.New("version is not in the manifest")
	ErrNoServerRelease = errors.New("version has no server download")
)

type Client struct {
	httpClient  *http.Client
	manifestURL string
}

type Option func(c *Client)

func WithManifestURL(url string) Option {
	return func(c *Client) {
		c.manifestURL = url
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

type VersionInfo struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	ReleaseTime string `json:"releaseTime"`
}

type VersionManifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []VersionInfo `json:"versions"`
}

type VersionMetaData struct {
	Downloads struct {
		Server struct {
			URL  string `json:"url"`
			SHA1 string `json:"sha1"`
			Size int64  `json:"size"`
		} `json:"server"`
	} `json:"downloads"`
	JavaVersion struct {
		Major int `json:"majorVersion"`
	} `json:"javaVersion"`
}

// ServerRelease is where the server jar of one Minecraft version can be downloaded.
type ServerRelease struct {
	Version   string
	URL       string
	JavaMajor int
}

func New(options ...Option) *Client {
	c := &Client{
		httpClient:  http.DefaultClient,
		manifestURL: mojangManifest,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.CopyN(io.Discard, resp.Body, 1024)
		return fmt.Errorf("failed to retrieve %s: %s", url, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *Client) GetVersionManifest(ctx context.Context) (*VersionManifest, error) {
	var manifest VersionManifest
	if err := c.getJSON(ctx, c.manifestURL, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

func (c *Client) GetVersionMetaData(ctx context.Context, version VersionInfo) (*VersionMetaData, error) {
	var meta VersionMetaData
	if err := c.getJSON(ctx, version.URL, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// FindServerRelease looks id up in the manifest and returns its server jar.
func (c *Client) FindServerRelease(ctx context.Context, id string) (*ServerRelease, error) {
	manifest, err := c.GetVersionManifest(ctx)
	if err != nil {
		return nil, err
	}

	var info *VersionInfo
	for i := range manifest.Versions {
		if manifest.Versions[i].ID == id {
			info = &manifest.Versions[i]
			break
		}
	}
	if info == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, id)
	}

	meta, err := c.GetVersionMetaData(ctx, *info)
	if err != nil {
		return nil, err
	}
	if meta.Downloads.Server.URL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoServerRelease, id)
	}

	return &ServerRelease{
		Version:   id,
		URL:       meta.Downloads.Server.URL,
		JavaMajor: meta.JavaVersion.Major,
	}, nil
}
