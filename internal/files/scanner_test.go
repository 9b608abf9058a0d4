package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFiles creates empty files under dir, creating directories as needed
func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
}

func TestWalkFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b", "a", "sub/c", "sub/deeper/d")

	var got []string
	err := WalkFiles(dir, func(path string) error {
		rel, err := filepath.Rel(dir, path)
		require.NoError(t, err)
		got = append(got, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)

	// Lexical, depth-first: traversal order is stable between runs
	assert.Equal(t, []string{"a", "b", "sub/c", "sub/deeper/d"}, got)
}

func TestWalkFiles_MissingRoot(t *testing.T) {
	err := WalkFiles(filepath.Join(t.TempDir(), "nope"), func(string) error { return nil })
	assert.Error(t, err)
}

func TestCounter_Count(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "001", "002", "003", "recon/004", "recon/005")

	counter := NewCounter()

	n, err := counter.Count(dir)
	require.NoError(t, err)
	assert.Equal(t, 5, n, "count includes files in subdirectories")

	n, err = counter.Count(filepath.Join(dir, "recon"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCounter_Memoizes(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "001", "002")

	counter := NewCounter()
	n, err := counter.Count(dir)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// A file added after the first count is not seen again: one run, one count
	writeFiles(t, dir, "003")
	n, err = counter.Count(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCounter_MissingDir(t *testing.T) {
	counter := NewCounter()
	_, err := counter.Count(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
