package leveldat

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/kofuk/mclaunch/internal/mc/nbt"
)

const (
	sizeLimit  = 4 * 1024 * 1024
	depthLimit = 20
)

// LevelDat is the part of level.dat the launcher cares about.
type LevelDat struct {
	LevelName   string
	VersionName string
	DataVersion int64
}

var pre114Pattern = regexp.MustCompile(`^1\.14(\.[12])? Pre-Release [1-5]$`)

// CanonicalizeVersionName converts the name stored in level.dat to the name the
// version is published under.
func CanonicalizeVersionName(name string) string {
	if strings.Contains(name, "Pre-Release") && !pre114Pattern.MatchString(name) {
		// Most pre-releases store "X Pre-Release N" while they are published as "X-preN".
		name = strings.Replace(name, " Pre-Release ", "-pre", 1)
	}
	return name
}

func Decode(r io.Reader) (*LevelDat, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer gzipReader.Close()

	root, err := nbt.NewReader(io.LimitReader(gzipReader, sizeLimit), nbt.WithMaxDepth(depthLimit)).ReadRoot()
	if err != nil {
		return nil, err
	}

	var result LevelDat
	result.LevelName, _ = root.String("Data", "LevelName")
	if name, ok := root.String("Data", "Version", "Name"); ok {
		result.VersionName = CanonicalizeVersionName(name)
	}
	result.DataVersion, _ = root.Int("Data", "DataVersion")
	return &result, nil
}

func Read(path string) (*LevelDat, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	result, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}
