// Package cache stores analysis reports on disk, keyed by the content of
// the compared sources.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
)

// Cache provides file-based caching for analysis results.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
	now     func() time.Time
}

// Entry represents a cached analysis result.
type Entry struct {
	Key       string          `json:"key"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// New creates a new cache instance. A disabled cache misses on every lookup
// and discards every write.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false, now: time.Now}, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
		now:     time.Now,
	}, nil
}

// Enabled reports whether lookups can hit.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// HashFile computes a BLAKE3 hash of a file's contents.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

// HashBytes computes a BLAKE3 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Key derives a cache key from its parts. Parts are length-delimited, so
// ("ab", "c") and ("a", "bc") give different keys.
func Key(parts ...string) string {
	h := blake3.New()
	var n [8]byte
	for _, p := range parts {
		size := uint64(len(p))
		for i := range n {
			n[i] = byte(size >> (8 * i))
		}
		h.Write(n[:])
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached entry if it exists and is not expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	path := c.keyPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Key != key {
		return nil, false
	}
	if c.now().Sub(entry.Timestamp) > c.ttl {
		os.Remove(path)
		return nil, false
	}
	return entry.Data, true
}

// Set stores JSON-encoded data in the cache.
func (c *Cache) Set(key string, data []byte) error {
	if !c.enabled {
		return nil
	}
	if !json.Valid(data) {
		return errors.New("cache: data is not valid JSON")
	}

	entry := Entry{
		Key:       key,
		Timestamp: c.now(),
		Data:      data,
	}
	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(key), entryData, 0600)
}

// Load decodes the entry for key into v. It reports false on a miss or an
// entry that no longer decodes.
func (c *Cache) Load(key string, v any) bool {
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// Store encodes v and stores it under key.
func (c *Cache) Store(key string, v any) error {
	if !c.enabled {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(key, data)
}

// Invalidate removes a cache entry. Removing a missing entry is not an error.
func (c *Cache) Invalidate(key string) error {
	if !c.enabled {
		return nil
	}
	err := os.Remove(c.keyPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	return os.RemoveAll(c.dir)
}

func (c *Cache) keyPath(key string) string {
	hash := blake3.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+".json")
}

// Stats returns cache statistics.
type Stats struct {
	Entries   int           `json:"entries"`
	TotalSize int64         `json:"total_size"`
	OldestAge time.Duration `json:"oldest_age"`
	NewestAge time.Duration `json:"newest_age"`
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}

	stats := &Stats{}
	var oldest, newest time.Time

	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		stats.Entries++
		stats.TotalSize += info.Size()

		modTime := info.ModTime()
		if oldest.IsZero() || modTime.Before(oldest) {
			oldest = modTime
		}
		if newest.IsZero() || modTime.After(newest) {
			newest = modTime
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !oldest.IsZero() {
		stats.OldestAge = c.now().Sub(oldest)
	}
	if !newest.IsZero() {
		stats.NewestAge = c.now().Sub(newest)
	}
	return stats, nil
}
