package filewalker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("<?php\n"), 0o644))
	}
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestFindHonoursIgnoreList(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"b.php",
		"a.php",
		"app/view.php",
		"app/script.js",
		"app/messages/en.php",
		"messages/hu.php",
		"runtime/cache.php",
		"vendor/nikic/parser.php",
		".git/hook.php",
	)

	w, err := NewWalker(DefaultIgnored)
	require.NoError(t, err)

	files, err := w.Find([]string{root}, "*.php")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.php", "app/messages/en.php", "app/view.php", "b.php"}, rel(t, root, files))
}

func TestFindDeduplicatesOverlappingRoots(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "x/one.js", "two.js")

	w, err := NewWalker(nil)
	require.NoError(t, err)

	files, err := w.Find([]string{filepath.Join(root, "x"), root}, "*.js")
	require.NoError(t, err)
	assert.Equal(t, []string{"x/one.js", "two.js"}, rel(t, root, files))
}

func TestFindInvalidRoot(t *testing.T) {
	w, err := NewWalker(nil)
	require.NoError(t, err)

	_, err = w.Find([]string{filepath.Join(t.TempDir(), "missing")}, "*.php")
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "f.php")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.Error(t, ValidateRoots([]string{file}))
}

func TestBadPatterns(t *testing.T) {
	_, err := NewWalker([]string{"[unclosed"})
	assert.ErrorIs(t, err, ErrBadPattern)
	assert.ErrorIs(t, ValidatePattern(""), ErrBadPattern)
	assert.NoError(t, ValidatePattern("**/*.php"))
}

func TestCacheWalksOncePerPattern(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.php")

	w, err := NewWalker(nil)
	require.NoError(t, err)
	c := NewCache(w, []string{root})

	first, err := c.Files("*.php")
	require.NoError(t, err)
	require.Len(t, first, 1)

	writeTree(t, root, "b.php")
	second, err := c.Files("*.php")
	require.NoError(t, err)
	assert.Equal(t, first, second, "cached list is reused")

	fresh, err := NewCache(w, []string{root}).Files("*.php")
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}
