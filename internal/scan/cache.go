// Package scan discovers media directories under library roots and
// caches scan results across runs.
package scan

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Filter names namespace cache entries per scan category so movie and
// show scans over the same roots never collide.
const (
	MovieScanFilter  = "movie_scan"
	TVShowScanFilter = "tvshow_scan"
)

// DefaultTTL is how long cached scan results stay valid.
const DefaultTTL = 24 * time.Hour

func init() {
	// Cached values are interface typed inside go-cache, so the
	// concrete slice type must be registered for gob persistence.
	gob.Register([]string{})
}

// ScanCache stores directory scan results with expiration and persists
// them to disk between runs.
type ScanCache struct {
	c    *gocache.Cache
	file string
}

// NewScanCache creates a cache backed by the given file. An empty path
// keeps the cache in memory only. A non-positive ttl falls back to
// DefaultTTL. Corrupt or unreadable cache files are discarded rather
// than surfaced as errors.
func NewScanCache(path string, ttl time.Duration) (*ScanCache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	sc := &ScanCache{
		c:    gocache.New(ttl, 10*time.Minute),
		file: path,
	}
	if path == "" {
		return sc, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		if err := sc.c.LoadFile(path); err != nil {
			sc.c.Flush()
		}
		sc.c.DeleteExpired()
	}
	return sc, nil
}

// Key derives the cache key for a scan request. Roots are cleaned and
// sorted so equivalent root sets share an entry regardless of order.
// A positive max becomes part of the key so sampled scans never serve
// full results and vice versa.
func Key(roots []string, filterName string, max int) string {
	cleaned := make([]string, 0, len(roots))
	for _, r := range roots {
		cleaned = append(cleaned, filepath.Clean(r))
	}
	sort.Strings(cleaned)
	parts := append(cleaned, filterName)
	if max > 0 {
		parts = append(parts, strconv.Itoa(max))
	}
	return strings.Join(parts, ":")
}

// Get returns the cached directory list for key, if present and not
// expired.
func (s *ScanCache) Get(key string) ([]string, bool) {
	v, found := s.c.Get(key)
	if !found {
		return nil, false
	}
	dirs, ok := v.([]string)
	if !ok {
		s.c.Delete(key)
		return nil, false
	}
	return dirs, true
}

// Set stores a directory list under key and persists the cache.
func (s *ScanCache) Set(key string, dirs []string) error {
	s.c.Set(key, dirs, gocache.DefaultExpiration)
	return s.save()
}

// Remove deletes a single entry and persists the cache.
func (s *ScanCache) Remove(key string) error {
	s.c.Delete(key)
	return s.save()
}

// Clear drops every cached entry and persists the empty cache.
func (s *ScanCache) Clear() error {
	s.c.Flush()
	return s.save()
}

func (s *ScanCache) save() error {
	if s.file == "" {
		return nil
	}
	if err := s.c.SaveFile(s.file); err != nil {
		return fmt.Errorf("failed to save scan cache: %w", err)
	}
	return nil
}
