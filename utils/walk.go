package utils

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// WalkFiles iterates over all the files under root, yielding their paths.
// Errors encountered mid-walk are yielded as error pairs and the walk
// continues with the next entry.
func WalkFiles(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error { //nolint:errcheck // errors are yielded in-stream
			if err != nil {
				if !yield("", err) {
					return fs.SkipAll
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !yield(path, nil) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// WalkLeafDirs yields the paths of the leaf directories under root: those
// with no subdirectories of their own.
func WalkLeafDirs(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var walk func(dir string) bool
		walk = func(dir string) bool {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return yield("", err)
			}
			leaf := true
			for _, e := range entries {
				if e.IsDir() {
					leaf = false
					if !walk(filepath.Join(dir, e.Name())) {
						return false
					}
				}
			}
			if leaf {
				return yield(dir, nil)
			}
			return true
		}
		walk(root)
	}
}
