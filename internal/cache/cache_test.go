package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/panbanda/swiftcx/pkg/analyzer/complexity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(path string) complexity.ComplexityResult {
	return complexity.NewResult(path, []complexity.FunctionComplexity{
		{Name: "run", Signature: "func run()", CyclomaticComplexity: 3, CognitiveComplexity: 4},
	})
}

func newCache(t *testing.T, ttlHours int) *Cache {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "cache"), ttlHours, true)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	c := newCache(t, 24)
	assert.True(t, c.Enabled())

	c, err := New("", 0, false)
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	var nilCache *Cache
	assert.False(t, nilCache.Enabled())
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache", "dir")
	_, err := New(dir, 24, true)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPutAndGet(t *testing.T) {
	c := newCache(t, 24)
	content := []byte("func run() {}")
	want := sampleResult("/src/A.swift")

	require.NoError(t, c.Put("/src/A.swift", content, want))

	got, ok := c.Get("/src/A.swift", content)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestGetMisses(t *testing.T) {
	c := newCache(t, 24)
	content := []byte("func run() {}")
	require.NoError(t, c.Put("/src/A.swift", content, sampleResult("/src/A.swift")))

	_, ok := c.Get("/src/B.swift", content)
	assert.False(t, ok, "different path")

	_, ok = c.Get("/src/A.swift", []byte("func run() { if a {} }"))
	assert.False(t, ok, "changed content")
}

func TestGetExpired(t *testing.T) {
	c := newCache(t, 1)
	content := []byte("x")
	require.NoError(t, c.Put("/a.swift", content, sampleResult("/a.swift")))

	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, ok := c.Get("/a.swift", content)
	assert.False(t, ok)

	_, err := os.Stat(c.keyPath("/a.swift"))
	assert.True(t, os.IsNotExist(err), "expired entry should be removed")
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c := newCache(t, 0)
	content := []byte("x")
	require.NoError(t, c.Put("/a.swift", content, sampleResult("/a.swift")))

	c.now = func() time.Time { return time.Now().Add(1000 * time.Hour) }
	_, ok := c.Get("/a.swift", content)
	assert.True(t, ok)
}

func TestGetCorruptEntry(t *testing.T) {
	c := newCache(t, 24)
	require.NoError(t, os.WriteFile(c.keyPath("/a.swift"), []byte("{not json"), 0600))

	_, ok := c.Get("/a.swift", []byte("x"))
	assert.False(t, ok)
}

func TestDisabledCache(t *testing.T) {
	c, err := New("", 0, false)
	require.NoError(t, err)

	require.NoError(t, c.Put("/a.swift", []byte("x"), sampleResult("/a.swift")))
	_, ok := c.Get("/a.swift", []byte("x"))
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate("/a.swift"))
	assert.NoError(t, c.Clear())

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
}

func TestInvalidate(t *testing.T) {
	c := newCache(t, 24)
	content := []byte("x")
	require.NoError(t, c.Put("/a.swift", content, sampleResult("/a.swift")))

	require.NoError(t, c.Invalidate("/a.swift"))
	_, ok := c.Get("/a.swift", content)
	assert.False(t, ok)

	assert.NoError(t, c.Invalidate("/a.swift"), "missing entry is not an error")
}

func TestClearAndStats(t *testing.T) {
	c := newCache(t, 24)
	for _, p := range []string{"/a.swift", "/b.swift", "/c.swift"} {
		require.NoError(t, c.Put(p, []byte(p), sampleResult(p)))
	}

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Entries)
	assert.Positive(t, stats.TotalSize)

	require.NoError(t, c.Clear())
	_, err = os.Stat(c.dir)
	assert.True(t, os.IsNotExist(err))
}

func TestHashBytes(t *testing.T) {
	a := HashBytes([]byte("hello"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashBytes([]byte("hello")))
	assert.NotEqual(t, a, HashBytes([]byte("hello!")))
}
