package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/panbanda/swiftcx/pkg/analyzer/complexity"
	"github.com/zeebo/blake3"
)

// Cache provides file-based caching of per-file complexity results.
// Entries are keyed by file path and only served while the file content
// hash still matches.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
	now     func() time.Time
}

// Entry represents a cached analysis result.
type Entry struct {
	Path      string                      `json:"path"`
	Hash      string                      `json:"hash"`
	Timestamp time.Time                   `json:"timestamp"`
	Result    complexity.ComplexityResult `json:"result"`
}

// New creates a new cache instance. A ttlHours of 0 keeps entries until
// their content changes.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
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
	return c != nil && c.enabled
}

// HashBytes computes a BLAKE3 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Get returns the cached result for path when content is unchanged and the
// entry has not expired.
func (c *Cache) Get(path string, content []byte) (complexity.ComplexityResult, bool) {
	if !c.Enabled() {
		return complexity.ComplexityResult{}, false
	}

	file := c.keyPath(path)
	data, err := os.ReadFile(file)
	if err != nil {
		return complexity.ComplexityResult{}, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return complexity.ComplexityResult{}, false
	}

	// A key collision between two paths is treated as a miss.
	if entry.Path != path || entry.Hash != HashBytes(content) {
		return complexity.ComplexityResult{}, false
	}

	if c.ttl > 0 && c.now().Sub(entry.Timestamp) > c.ttl {
		_ = os.Remove(file)
		return complexity.ComplexityResult{}, false
	}

	return entry.Result, true
}

// Put stores result for path together with the hash of content.
func (c *Cache) Put(path string, content []byte, result complexity.ComplexityResult) error {
	if !c.Enabled() {
		return nil
	}

	entry := Entry{
		Path:      path,
		Hash:      HashBytes(content),
		Timestamp: c.now(),
		Result:    result,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return os.WriteFile(c.keyPath(path), data, 0600)
}

// Invalidate removes the entry for path.
func (c *Cache) Invalidate(path string) error {
	if !c.Enabled() {
		return nil
	}
	err := os.Remove(c.keyPath(path))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.Enabled() {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// keyPath maps a source path to its entry file.
func (c *Cache) keyPath(path string) string {
	return filepath.Join(c.dir, strconv.FormatUint(xxhash.Sum64String(path), 16)+".json")
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
	if !c.Enabled() {
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
