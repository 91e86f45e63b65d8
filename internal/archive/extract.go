package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var (
	ErrUnsupportedArchive = errors.New("unsupported archive type")
	ErrInsecurePath       = errors.New("archive entry escapes the destination")
)

// FileCreator materializes archive entries below outDir.
type FileCreator struct {
	outDir string
}

func NewFileCreator(outDir string) *FileCreator {
	return &FileCreator{
		outDir: outDir,
	}
}

func (c *FileCreator) resolve(name string) (string, error) {
	name = filepath.FromSlash(name)
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %s", ErrInsecurePath, name)
	}
	return filepath.Join(c.outDir, name), nil
}

func (c *FileCreator) CreateFile(name string, isDir bool, content io.Reader) error {
	path, err := c.resolve(name)
	if err != nil {
		return err
	}

	if isDir {
		return os.MkdirAll(path, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return err
	}

	return file.Close()
}

type Decompressor interface {
	ToDecompressed(io.Reader) (io.Reader, error)
}

type ZstdDecompressor struct{}

func (*ZstdDecompressor) ToDecompressed(r io.Reader) (io.Reader, error) {
	zstdr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return zstdr.IOReadCloser(), nil
}

type XZDecompressor struct{}

func (*XZDecompressor) ToDecompressed(r io.Reader) (io.Reader, error) {
	return xz.NewReader(r)
}

type GzipDecompressor struct{}

func (*GzipDecompressor) ToDecompressed(r io.Reader) (io.Reader, error) {
	return gzip.NewReader(r)
}

type Unarchiver interface {
	Unarchive(src *os.File, c *FileCreator) error
}

type ZipUnarchiver struct{}

func (*ZipUnarchiver) Unarchive(src *os.File, c *FileCreator) error {
	info, err := src.Stat()
	if err != nil {
		return err
	}

	zr, err := zip.NewReader(src, info.Size())
	if err != nil {
		return err
	}

	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			if err := c.CreateFile(f.Name, true, nil); err != nil {
				return err
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}
		if err := c.CreateFile(f.Name, false, rc); err != nil {
			rc.Close()
			return err
		}
		rc.Close()
	}

	return nil
}

// TarUnarchiver reads a tar stream, optionally through a decompressor.
type TarUnarchiver struct {
	D Decompressor
}

func (u *TarUnarchiver) Unarchive(src *os.File, c *FileCreator) error {
	var r io.Reader = src
	if u.D != nil {
		var err error
		r, err = u.D.ToDecompressed(src)
		if err != nil {
			return err
		}
		if closer, ok := r.(io.Closer); ok {
			defer closer.Close()
		}
	}

	tr := tar.NewReader(r)
	for {
		th, err := tr.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}

		switch th.Typeflag {
		case tar.TypeDir:
			if err := c.CreateFile(th.Name, true, nil); err != nil {
				return err
			}

		case tar.TypeReg:
			if err := c.CreateFile(th.Name, false, tr); err != nil {
				return err
			}

		default:
			// Links and devices never make up a world.
		}
	}

	return nil
}

func unarchiverFor(path string) (Unarchiver, error) {
	name := strings.ToLower(path)
	switch {
	case strings.HasSuffix(name, ".zip"):
		return &ZipUnarchiver{}, nil
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return &TarUnarchiver{D: &XZDecompressor{}}, nil
	case strings.HasSuffix(name, ".tar.zst"):
		return &TarUnarchiver{D: &ZstdDecompressor{}}, nil
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return &TarUnarchiver{D: &GzipDecompressor{}}, nil
	case strings.HasSuffix(name, ".tar"):
		return &TarUnarchiver{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedArchive, path)
}

// IsArchive reports whether path names an archive format Unpack understands.
func IsArchive(path string) bool {
	_, err := unarchiverFor(path)
	return err == nil
}

// Unpack extracts the archive at src into destDir. The format is taken from the name
// of src.
func Unpack(src, destDir string) error {
	u, err := unarchiverFor(src)
	if err != nil {
		return err
	}

	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	return u.Unarchive(file, NewFileCreator(destDir))
}
