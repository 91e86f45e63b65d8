package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kofuk/mclaunch/internal/archive"
	"github.com/kofuk/mclaunch/internal/env"
	"github.com/kofuk/mclaunch/internal/fs"
	"github.com/kofuk/mclaunch/internal/operator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/kofuk/mclaunch/internal/stage")

var (
	ErrWorldFolderNotFound = errors.New("world folder not found")
	ErrOperatorAborted     = operator.ErrAborted
)

// Policy is what happens to a map that is already staged.
type Policy int

const (
	PolicyKeep Policy = iota
	PolicyWipePlayerData
	PolicyReset
	PolicyAbort
)

var policyOptions = []string{
	"Don't touch anything",
	"Delete all player's data",
	"Reset the map",
	"Abort this program",
}

func (p Policy) String() string {
	if int(p) < 0 || int(p) >= len(policyOptions) {
		return fmt.Sprintf("Policy(%d)", int(p))
	}
	return policyOptions[p]
}

// Localizer turns a source reference into a path on the local filesystem.
type Localizer interface {
	Localize(ctx context.Context, source string) (string, error)
}

type Stager struct {
	paths     env.PathProvider
	operator  operator.Operator
	localizer Localizer
}

type Option func(s *Stager)

// WithLocalizer lets world and resource pack sources live somewhere other than the
// local disk.
func WithLocalizer(l Localizer) Option {
	return func(s *Stager) {
		s.localizer = l
	}
}

func NewStager(paths env.PathProvider, op operator.Operator, options ...Option) *Stager {
	s := &Stager{
		paths:    paths,
		operator: op,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *Stager) localize(ctx context.Context, source string) (string, error) {
	if s.localizer == nil {
		return s.paths.GetDataPath(source), nil
	}
	return s.localizer.Localize(ctx, source)
}

func (s *Stager) askPolicy(ctx context.Context, slug string) (Policy, error) {
	idx, err := s.operator.Choose(ctx, fmt.Sprintf("Map folder '%s' already exists. You can:", slug), policyOptions)
	if err != nil {
		return PolicyAbort, err
	}
	return Policy(idx), nil
}

// StageMap makes sure the world for slug exists below the data directory and returns
// its path. An existing folder is handled according to the operator's choice.
func (s *Stager) StageMap(ctx context.Context, slug, source string) (string, error) {
	ctx, span := tracer.Start(ctx, "Stage map")
	defer span.End()
	span.SetAttributes(attribute.String("map.slug", slug), attribute.String("map.source", source))

	dest := s.paths.GetDataPath(slug)

	if fs.IsDir(dest) {
		policy, err := s.askPolicy(ctx, slug)
		if err != nil {
			return "", err
		}
		slog.Info("Existing map folder", slog.String("path", dest), slog.String("policy", policy.String()))

		switch policy {
		case PolicyKeep:
			return dest, nil

		case PolicyWipePlayerData:
			if err := WipePlayerData(dest); err != nil {
				return "", err
			}
			return dest, nil

		case PolicyReset:
			if err := os.RemoveAll(dest); err != nil {
				return "", err
			}

		default:
			return "", ErrOperatorAborted
		}
	} else {
		slog.Info("Copying map folder", slog.String("path", dest))
	}

	if err := s.createMap(ctx, dest, source); err != nil {
		return "", err
	}
	return dest, nil
}

func (s *Stager) createMap(ctx context.Context, dest, source string) error {
	path, err := s.localize(ctx, source)
	if err != nil {
		return err
	}

	switch {
	case fs.IsDir(path):
		world, err := locate(path)
		if err != nil {
			return err
		}
		return fs.CopyAll(world, dest)

	case fs.IsRegularFile(path) && archive.IsArchive(path):
		tmpDir, err := env.MkdirTemp(s.paths)
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmpDir)

		slog.Debug("Unpacking world archive", slog.String("archive", path), slog.String("to", tmpDir))
		if err := archive.Unpack(path, tmpDir); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		world, err := locate(tmpDir)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return fs.Relocate(world, dest)
	}

	return fmt.Errorf("world source %s is neither a directory nor a supported archive", source)
}

func locate(root string) (string, error) {
	world, found, err := LocateWorldFolder(root)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: no %s below %s", ErrWorldFolderNotFound, WorldMarker, root)
	}
	return world, nil
}

// WipePlayerData removes the regular files directly inside the world's playerdata
// folder. Subdirectories are left alone, and so is a world without that folder.
func WipePlayerData(worldDir string) error {
	dir := filepath.Join(worldDir, "playerdata")

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("No player data to delete", slog.String("path", dir))
			return nil
		}
		return err
	}

	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
		removed++
	}

	slog.Info("Deleted player data", slog.String("path", dir), slog.Int("files", removed))
	return nil
}

// StageResourcePack places the pack at dest and reports whether there is anything to
// serve. A .zip file is copied as is; a directory is zipped.
func (s *Stager) StageResourcePack(ctx context.Context, source, dest string) (bool, error) {
	if source == "" {
		return false, nil
	}

	ctx, span := tracer.Start(ctx, "Stage resource pack")
	defer span.End()

	path, err := s.localize(ctx, source)
	if err != nil {
		return false, err
	}

	switch {
	case strings.HasSuffix(strings.ToLower(path), ".zip") && fs.IsRegularFile(path):
		if err := fs.CopyFile(path, dest); err != nil {
			return false, err
		}

	case fs.IsDir(path):
		if err := archive.PackDir(path, dest); err != nil {
			return false, err
		}

	default:
		return false, fmt.Errorf("resource pack %s is neither a .zip file nor a directory", source)
	}

	slog.Info("Resource pack staged", slog.String("source", source), slog.String("path", dest))
	return true, nil
}
