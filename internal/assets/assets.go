// Package assets resolves game files against a list of search directories
// and caches what it has read.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when no search root holds the requested file.
var ErrNotFound = errors.New("asset not found")

// Manager reads asset files relative to its roots. It is safe for use from
// several goroutines; the texture loader reads through it off the render
// thread.
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a manager searching roots. Later roots take priority.
func NewManager(roots ...string) *Manager {
	m := &Manager{cache: NewCache()}
	for _, r := range roots {
		m.AddRoot(r)
	}
	return m
}

// DefaultRoots returns the working directory followed by the directory
// holding the executable, so assets next to the binary win.
func DefaultRoots() []string {
	roots := []string{"."}
	if exe, err := os.Executable(); err == nil {
		if dir := filepath.Dir(exe); dir != "." {
			roots = append(roots, dir)
		}
	}
	return roots
}

// AddRoot adds a search directory with the highest priority so far.
func (m *Manager) AddRoot(dir string) {
	if dir == "" {
		return
	}
	m.mu.Lock()
	m.roots = append(m.roots, filepath.Clean(dir))
	m.mu.Unlock()
}

// Roots returns the search directories, highest priority first.
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.roots))
	for i := len(m.roots) - 1; i >= 0; i-- {
		out = append(out, m.roots[i])
	}
	return out
}

// Resolve returns the on-disk location of path. Absolute paths are only
// checked for existence.
func (m *Manager) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrNotFound)
	}
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
		}
		return path, nil
	}

	for _, root := range m.Roots() {
		full := filepath.Join(root, path)
		info, err := os.Stat(full)
		if err == nil && !info.IsDir() {
			return full, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", full, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Load reads path through the cache.
func (m *Manager) Load(path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	full, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", full, err)
	}
	m.cache.Set(path, data)
	return data, nil
}

// Cache returns the manager's cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close drops all cached data.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Cache keeps file contents in memory by the path they were requested as.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	hits   int
	misses int
	bytes  int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{data: make(map[string][]byte)}
}

// Get returns a cached entry and counts the hit or miss.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an entry, replacing any previous one.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bytes += len(data) - len(c.data[key])
	c.data[key] = data
}

// Clear empties the cache and resets its counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string][]byte)
	c.hits, c.misses, c.bytes = 0, 0, 0
}

// Stats returns hit and miss counts plus the bytes held.
func (c *Cache) Stats() (hits, misses, bytes int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses, c.bytes
}
