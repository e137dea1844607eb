package mozversion

import (
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Source records which probe strategy produced a version.
type Source int

const (
	SourceMetadata Source = iota
	SourceBinaryProbe
	// SourceSeeded marks records placed in the cache by its owner
	SourceSeeded
)

func (s Source) String() string {
	switch s {
	case SourceMetadata:
		return "metadata"
	case SourceBinaryProbe:
		return "binary"
	case SourceSeeded:
		return "seeded"
	default:
		return "unknown"
	}
}

// Record is the final answer for one binary path: a version or the error
// that prevented finding one.
type Record struct {
	Version Version
	Source  Source
	Err     error
}

// Cache maps binary paths to version records.
//
// A Cache is owned by the server and shared by every session request; it is
// never invalidated, including for failed lookups, since a binary's version
// is assumed fixed for the lifetime of the process. Concurrent lookups of the
// same path run the probe once.
type Cache struct {
	mu      sync.RWMutex
	records map[string]Record
	group   singleflight.Group
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{records: make(map[string]Record)}
}

// cacheKey normalises a binary path to the absolute form used as key.
func cacheKey(binary string) string {
	if abs, err := filepath.Abs(binary); err == nil {
		return abs
	}
	return filepath.Clean(binary)
}

// Lookup returns the cached record for binary, if any.
func (c *Cache) Lookup(binary string) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[cacheKey(binary)]
	return rec, ok
}

// Seed stores a known version for binary, replacing any cached record.
func (c *Cache) Seed(binary string, v Version) {
	c.store(cacheKey(binary), Record{Version: v, Source: SourceSeeded})
}

// SeedError stores a failed lookup for binary.
func (c *Cache) SeedError(binary string, err error) {
	c.store(cacheKey(binary), Record{Source: SourceSeeded, Err: err})
}

// Len returns the number of cached paths.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

func (c *Cache) store(key string, rec Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[key] = rec
}

// getOrCompute returns the cached record for binary or computes, stores
// and returns it. cached reports whether compute was skipped.
func (c *Cache) getOrCompute(binary string, compute func() Record) (rec Record, cached bool) {
	key := cacheKey(binary)

	c.mu.RLock()
	rec, ok := c.records[key]
	c.mu.RUnlock()
	if ok {
		return rec, true
	}

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		// Another caller may have stored the record between our read and
		// entering the flight.
		c.mu.RLock()
		existing, ok := c.records[key]
		c.mu.RUnlock()
		if ok {
			return existing, nil
		}

		computed := compute()
		c.store(key, computed)
		return computed, nil
	})
	return v.(Record), false
}
