package files

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// WalkFiles calls fn for every regular file under root in depth-first
// lexical order. Unreadable subtrees are skipped rather than aborting the
// walk; a missing or unreadable root is an error.
func WalkFiles(root string, fn func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to read directory %s: %w", root, err)
			}
			return fs.SkipDir
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		return fn(path)
	})
}

// Counter counts regular files beneath a directory, recursively. Counts are
// memoized: a Planmeca examination folder holds one file per slice, and
// every slice file in it triggers the same lookup.
type Counter struct {
	counts map[string]int
}

// NewCounter creates an empty Counter
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Count returns the number of regular files under dir, including files in
// subdirectories.
func (c *Counter) Count(dir string) (int, error) {
	if n, ok := c.counts[dir]; ok {
		return n, nil
	}

	n := 0
	err := WalkFiles(dir, func(string) error {
		n++
		return nil
	})
	if err != nil {
		return 0, err
	}

	c.counts[dir] = n
	return n, nil
}
