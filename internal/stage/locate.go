package stage

import (
	"os"
	"path/filepath"
	"slices"
)

// WorldMarker is the file whose presence makes a directory a world folder.
const WorldMarker = "level.dat"

func hasMarker(entries []os.DirEntry) bool {
	return slices.ContainsFunc(entries, func(e os.DirEntry) bool {
		return e.Name() == WorldMarker
	})
}

// LocateWorldFolder searches root depth-first for the first directory that directly
// contains WorldMarker. Children are visited in the order os.ReadDir lists them.
// Symbolic links are not followed.
func LocateWorldFolder(root string) (string, bool, error) {
	stack := []string{root}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", false, err
		}

		if hasMarker(entries) {
			return dir, true, nil
		}

		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].IsDir() {
				stack = append(stack, filepath.Join(dir, entries[i].Name()))
			}
		}
	}

	return "", false, nil
}
