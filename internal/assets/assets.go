// Package assets resolves model resources from local search paths and
// http(s) URLs, with caching.
package assets

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrNotFound classifies every failed resolution: missing files, HTTP
// 404s, and unreachable servers.
var ErrNotFound = errors.New("resource not found")

// Fetcher resolves resource identifiers to raw bytes. Plain identifiers
// are tried against the local search paths, http(s) identifiers are
// fetched over the network. Successful fetches are cached.
type Fetcher struct {
	paths  []string
	cache  *Cache
	client *http.Client
	mu     sync.RWMutex
}

// NewFetcher creates a fetcher with the given local search paths.
func NewFetcher(searchPaths ...string) *Fetcher {
	return &Fetcher{
		paths:  append([]string(nil), searchPaths...),
		cache:  NewCache(),
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// AddSearchPath adds a local directory to search.
// Paths are searched in reverse order (last added = highest priority).
func (f *Fetcher) AddSearchPath(dir string) {
	f.mu.Lock()
	f.paths = append(f.paths, dir)
	f.mu.Unlock()
}

// Fetch resolves one resource identifier.
func (f *Fetcher) Fetch(resource string) ([]byte, error) {
	if data, ok := f.cache.Get(resource); ok {
		return data, nil
	}

	var (
		data []byte
		err  error
	)
	if IsURL(resource) {
		data, err = f.fetchURL(resource)
	} else {
		data, err = f.fetchFile(resource)
	}
	if err != nil {
		return nil, err
	}

	f.cache.Set(resource, data)
	return data, nil
}

// Sibling fetches a resource that lives next to base, such as an MTL
// library referenced by a model.
func (f *Fetcher) Sibling(base, name string) ([]byte, error) {
	if IsURL(base) {
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		u.Path = path.Join(path.Dir(u.Path), name)
		u.RawQuery = ""
		return f.Fetch(u.String())
	}

	dir := filepath.Dir(base)
	if dir == "." {
		return f.Fetch(name)
	}
	return f.Fetch(filepath.Join(dir, name))
}

// ResolveLocal returns the on-disk path that would serve a fetch of
// resource, for file watching. URLs and unresolvable names return false.
func (f *Fetcher) ResolveLocal(resource string) (string, bool) {
	if IsURL(resource) {
		return "", false
	}
	if filepath.IsAbs(resource) {
		if _, err := os.Stat(resource); err == nil {
			return resource, true
		}
		return "", false
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	for i := len(f.paths) - 1; i >= 0; i-- {
		candidate := filepath.Join(f.paths[i], resource)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// ClearCache drops every cached resource, forcing the next fetch to hit
// disk or the network again.
func (f *Fetcher) ClearCache() {
	f.cache.Clear()
}

// CacheStats returns cache hit and miss counts.
func (f *Fetcher) CacheStats() (hits, misses int) {
	return f.cache.Stats()
}

// IsURL reports whether a resource identifier is an http(s) URL.
func IsURL(resource string) bool {
	return strings.HasPrefix(resource, "http://") || strings.HasPrefix(resource, "https://")
}

func (f *Fetcher) fetchFile(resource string) ([]byte, error) {
	if filepath.IsAbs(resource) {
		data, err := os.ReadFile(resource)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, resource)
		}
		return data, nil
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	// Search paths in reverse order
	for i := len(f.paths) - 1; i >= 0; i-- {
		data, err := os.ReadFile(filepath.Join(f.paths[i], resource))
		if err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, resource)
}

func (f *Fetcher) fetchURL(resource string) ([]byte, error) {
	resp, err := f.client.Get(resource)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, resource)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", resource, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", resource, err)
	}
	return data, nil
}

// Cache is a simple in-memory cache for fetched resources.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
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

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Invalidate removes a single key from the cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
