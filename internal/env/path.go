package env

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// PathProvider resolves the files the launcher works with relative to the server
// directory.
type PathProvider interface {
	GetDataPath(path ...string) string
	GetTempDir() string
}

type pathProvider struct {
	baseDir string
	tempDir string
}

func NewPathProvider(baseDir, tempDir string) PathProvider {
	return &pathProvider{
		baseDir: baseDir,
		tempDir: tempDir,
	}
}

// GetDataPath joins path onto the base directory unless it is already absolute.
func (p *pathProvider) GetDataPath(path ...string) string {
	joined := filepath.Join(path...)
	if filepath.IsAbs(joined) {
		return joined
	}
	return filepath.Join(p.baseDir, joined)
}

func (p *pathProvider) GetTempDir() string {
	return p.GetDataPath(p.tempDir)
}

// MkdirTemp creates a uniquely named scratch directory inside the temp dir.
func MkdirTemp(provider PathProvider) (string, error) {
	dir := filepath.Join(provider.GetTempDir(), uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
