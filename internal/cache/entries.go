package cache

import "time"

// Version should be incremented when the cache format changes
// to invalidate old entries.
const Version = 1

// Entry is a cached API result, held both in memory and on disk.
// Exactly one of Languages or Colors is set.
type Entry struct {
	Languages map[string]int64  `json:"languages,omitempty"`
	Colors    map[string]string `json:"colors,omitempty"`
	PushedAt  time.Time         `json:"pushedAt,omitzero"` // repository push time for invalidation
	CachedAt  time.Time         `json:"cachedAt"`
	Version   int               `json:"version"`
}

// CacheStats contains cache statistics broken down by entry kind.
type CacheStats struct {
	LanguageTotal int
	LanguageValid int
	ColorsCached  bool
	ColorsValid   bool
	MemoryEntries int
}
