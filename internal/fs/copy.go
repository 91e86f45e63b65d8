package fs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

func CopyFile(from, to string) error {
	fromFile, err := os.Open(from)
	if err != nil {
		return err
	}
	defer fromFile.Close()

	if err := os.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return err
	}

	toFile, err := os.Create(to)
	if err != nil {
		return err
	}
	defer toFile.Close()

	if _, err := io.Copy(toFile, fromFile); err != nil {
		return err
	}

	return toFile.Close()
}

func moveDir(oldDir, newDir string, copy bool) error {
	return fs.WalkDir(os.DirFS(oldDir), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		newPath := filepath.Join(newDir, path)
		if d.IsDir() {
			return os.MkdirAll(newPath, 0755)
		}
		if !d.Type().IsRegular() {
			// Symlinks and the like are not part of a world.
			return nil
		}

		oldPath := filepath.Join(oldDir, path)
		if !copy {
			// rename(2) fails across devices; fall back to copy-and-remove then.
			if err := os.Rename(oldPath, newPath); err == nil {
				return nil
			}
		}

		if err := CopyFile(oldPath, newPath); err != nil {
			return err
		}

		if !copy {
			os.Remove(oldPath)
		}

		return nil
	})
}

func CopyAll(oldDir, newDir string) error {
	return moveDir(oldDir, newDir, true)
}

func MoveAll(oldDir, newDir string) error {
	return moveDir(oldDir, newDir, false)
}

// Relocate moves oldDir to newDir, which must not exist yet.
func Relocate(oldDir, newDir string) error {
	if err := os.Rename(oldDir, newDir); err == nil {
		return nil
	}
	if err := MoveAll(oldDir, newDir); err != nil {
		return err
	}
	return os.RemoveAll(oldDir)
}

func RemoveIfExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return os.RemoveAll(path)
}

func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
