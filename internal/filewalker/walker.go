package filewalker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/btree"
)

// ErrBadPattern is returned for a malformed file or ignore pattern.
var ErrBadPattern = errors.New("bad pattern")

// DefaultIgnored lists entries skipped unless configured otherwise. A
// leading "/" anchors an entry to the scan root; other entries match a file
// or directory name at any depth.
var DefaultIgnored = []string{
	".svn",
	".git",
	".gitignore",
	".gitkeep",
	".hgignore",
	".hgkeep",
	"/messages",
	"/BaseYii.php",
	"runtime",
	"bower",
	"nikic",
}

// Walker enumerates files under scan roots.
type Walker struct {
	ignored []string
}

// NewWalker creates a Walker skipping the given entries.
func NewWalker(ignored []string) (*Walker, error) {
	for _, p := range ignored {
		if p == "" || !doublestar.ValidatePattern(strings.TrimPrefix(p, "/")) {
			return nil, fmt.Errorf("%w: ignore entry %q", ErrBadPattern, p)
		}
	}
	return &Walker{ignored: ignored}, nil
}

// ValidatePattern checks a file pattern such as "*.php".
func ValidatePattern(pattern string) error {
	if pattern == "" || !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}
	return nil
}

// ValidateRoots checks that every root is an existing directory.
func ValidateRoots(roots []string) error {
	for _, root := range roots {
		if _, err := resolveRoot(root); err != nil {
			return err
		}
	}
	return nil
}

func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("root is not a directory: %s", abs)
	}
	return abs, nil
}

// Find returns the files under roots matching pattern. Paths are absolute,
// sorted within each root, and listed once even when roots overlap.
func (w *Walker) Find(roots []string, pattern string) ([]string, error) {
	if err := ValidatePattern(pattern); err != nil {
		return nil, err
	}

	var seen btree.Set[string]
	var files []string
	for _, root := range roots {
		found, err := w.findInRoot(root, pattern)
		if err != nil {
			return nil, err
		}
		found.Scan(func(path string) bool {
			if !seen.Contains(path) {
				seen.Insert(path)
				files = append(files, path)
			}
			return true
		})
	}

	log.Debug().Int("count", len(files)).Str("pattern", pattern).Msg("Discovered files")
	return files, nil
}

func (w *Walker) findInRoot(root, pattern string) (*btree.Set[string], error) {
	root, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	var found btree.Set[string]
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if w.isIgnored(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if matchPath(pattern, rel) {
			found.Insert(path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return &found, nil
}

// isIgnored checks the entry at rel. Ancestors have already been checked
// by the time a path is visited.
func (w *Walker) isIgnored(rel string) bool {
	for _, p := range w.ignored {
		if anchored, ok := strings.CutPrefix(p, "/"); ok {
			if m, _ := doublestar.Match(anchored, rel); m {
				return true
			}
			continue
		}
		if matchPath(p, rel) {
			return true
		}
	}
	return false
}

// matchPath matches patterns without a slash against the base name and the
// rest against the whole relative path.
func matchPath(pattern, rel string) bool {
	name := rel
	if !strings.Contains(pattern, "/") {
		name = rel[strings.LastIndexByte(rel, '/')+1:]
	}
	m, _ := doublestar.Match(pattern, name)
	return m
}
