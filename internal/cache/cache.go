// Package cache provides caching functionality for GitHub API responses.
//
// Entries live in an in-memory otter cache backed by one JSON file per
// entry on disk, so repeated runs skip per-repository language requests
// for repositories that have not been pushed to since they were cached.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/spiffcs/statcard/internal/constants"
	"github.com/spiffcs/statcard/internal/log"
)

const (
	languagePrefix = "lang_"
	colorsKey      = "colors"
)

// Cacher defines the interface for caching operations.
// This interface enables mocking the cache in unit tests.
type Cacher interface {
	GetLanguages(fullName string, pushedAt time.Time) (map[string]int64, bool)
	SetLanguages(fullName string, pushedAt time.Time, langs map[string]int64) error
	LanguageColors() (map[string]string, bool)
	SetLanguageColors(colors map[string]string)
	Clear() error
	DetailedStats() (*CacheStats, error)
}

// Ensure Cache implements Cacher interface.
var _ Cacher = (*Cache)(nil)

// Cache stores language data to avoid repeated API calls
type Cache struct {
	dir    string
	ttl    time.Duration
	memory *otter.Cache[string, Entry]
}

// DefaultDir returns the on-disk cache location.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "statcard", "languages"), nil
}

// NewCache creates a cache in the user cache directory.
func NewCache(ttl time.Duration) (*Cache, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return NewCacheWithDir(dir, ttl)
}

// NewCacheWithDir creates a cache rooted at dir.
func NewCacheWithDir(dir string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = constants.LanguageCacheTTL
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	memory := otter.Must(&otter.Options[string, Entry]{
		MaximumSize:      constants.CacheMaxEntries,
		InitialCapacity:  256,
		ExpiryCalculator: otter.ExpiryWriting[string, Entry](ttl),
	})

	return &Cache{dir: dir, ttl: ttl, memory: memory}, nil
}

// fileName maps a cache key to a file name, keeping owner/repo keys flat.
func fileName(key string) string {
	return strings.ReplaceAll(key, "/", "_") + ".json"
}

func languageKey(fullName string) string {
	return languagePrefix + fullName
}

// lookup checks memory first, then disk, promoting disk hits into memory.
func (c *Cache) lookup(key string) (Entry, bool) {
	if e, ok := c.memory.GetIfPresent(key); ok {
		return e, true
	}

	data, err := os.ReadFile(filepath.Join(c.dir, fileName(key)))
	if err != nil {
		return Entry{}, false
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		log.Debug("discarding unreadable cache entry", "key", key, "error", err)
		return Entry{}, false
	}
	if e.Version != Version {
		log.Debug("cache version mismatch", "cached", e.Version, "current", Version, "key", key)
		return Entry{}, false
	}
	if time.Since(e.CachedAt) > c.ttl {
		return Entry{}, false
	}

	c.memory.Set(key, e)
	return e, true
}

func (c *Cache) store(key string, e Entry) error {
	e.CachedAt = time.Now()
	e.Version = Version
	c.memory.Set(key, e)

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, filepath.Join(c.dir, fileName(key))); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}

// GetLanguages returns cached language bytes for a repository.
// Entries are invalid once the repository has been pushed to since caching.
func (c *Cache) GetLanguages(fullName string, pushedAt time.Time) (map[string]int64, bool) {
	if fullName == "" {
		return nil, false
	}
	e, ok := c.lookup(languageKey(fullName))
	if !ok || e.Languages == nil {
		return nil, false
	}
	if pushedAt.After(e.PushedAt) {
		return nil, false
	}
	return e.Languages, true
}

// SetLanguages caches language bytes for a repository.
func (c *Cache) SetLanguages(fullName string, pushedAt time.Time, langs map[string]int64) error {
	if fullName == "" || langs == nil {
		return nil
	}
	return c.store(languageKey(fullName), Entry{Languages: langs, PushedAt: pushedAt})
}

// LanguageColors returns the cached language color table.
func (c *Cache) LanguageColors() (map[string]string, bool) {
	e, ok := c.lookup(colorsKey)
	if !ok || len(e.Colors) == 0 {
		return nil, false
	}
	return e.Colors, true
}

// SetLanguageColors caches the language color table. Write failures are
// logged since the table can always be fetched again.
func (c *Cache) SetLanguageColors(colors map[string]string) {
	if len(colors) == 0 {
		return
	}
	if err := c.store(colorsKey, Entry{Colors: colors}); err != nil {
		log.Debug("failed to cache language colors", "error", err)
	}
}

// TTL returns how long entries stay valid.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Clear removes all cached entries
func (c *Cache) Clear() error {
	c.memory.InvalidateAll()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

// DetailedStats returns cache statistics broken down by entry kind
func (c *Cache) DetailedStats() (*CacheStats, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, err
	}

	stats := &CacheStats{MemoryEntries: c.memory.EstimatedSize()}
	now := time.Now()

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.dir, name))
		if err != nil {
			continue
		}
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			continue
		}
		valid := e.Version == Version && now.Sub(e.CachedAt) <= c.ttl

		switch {
		case name == fileName(colorsKey):
			stats.ColorsCached = true
			stats.ColorsValid = valid
		case strings.HasPrefix(name, languagePrefix):
			stats.LanguageTotal++
			if valid {
				stats.LanguageValid++
			}
		}
	}

	return stats, nil
}
