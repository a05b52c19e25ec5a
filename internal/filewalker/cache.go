package filewalker

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Cache memoizes file lists per pattern for the lifetime of one scan run,
// so every handler sharing a pattern walks the roots only once.
type Cache struct {
	walker *Walker
	roots  []string

	mu    sync.RWMutex
	files map[string][]string // pattern → files
}

// NewCache creates an empty cache over roots.
func NewCache(w *Walker, roots []string) *Cache {
	return &Cache{
		walker: w,
		roots:  roots,
		files:  make(map[string][]string),
	}
}

// Files returns the files matching pattern, walking the roots on first use.
func (c *Cache) Files(pattern string) ([]string, error) {
	c.mu.RLock()
	if v, ok := c.files[pattern]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.files[pattern]; ok {
		return v, nil
	}

	files, err := c.walker.Find(c.roots, pattern)
	if err != nil {
		return nil, err
	}
	c.files[pattern] = files

	log.Info().Int("count", len(files)).Str("pattern", pattern).Int("roots", len(c.roots)).Msg("Cached file list")
	return files, nil
}
