package archive

import (
	"errors"
	"io"
	gofs "io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

func writeZip(to io.Writer, srcDir string) error {
	zw := zip.NewWriter(to)
	defer zw.Close()

	err := gofs.WalkDir(os.DirFS(srcDir), ".", func(path string, d gofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = path

		switch {
		case d.IsDir():
			hdr.Name += "/"
			_, err := zw.CreateHeader(hdr)
			return err

		case d.Type().IsRegular():
			hdr.Method = zip.Deflate
			w, err := zw.CreateHeader(hdr)
			if err != nil {
				return err
			}

			file, err := os.Open(filepath.Join(srcDir, path))
			if err != nil {
				return err
			}
			defer file.Close()

			_, err = io.Copy(w, file)
			return err

		default:
			return errors.New("unsupported file type: " + path)
		}
	})
	if err != nil {
		return err
	}

	return zw.Close()
}

// PackDir writes the contents of srcDir into a zip file at dest. Entries are relative
// to srcDir, which is what Minecraft expects of a resource pack.
func PackDir(srcDir, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	outFile, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if err := writeZip(outFile, srcDir); err != nil {
		return err
	}

	return outFile.Close()
}
