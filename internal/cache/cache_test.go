package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "cache"), 24, true)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	c, err := New(dir, 24, true)
	require.NoError(t, err)
	assert.True(t, c.Enabled())
	assert.DirExists(t, dir)

	disabled, err := New("", 0, false)
	require.NoError(t, err)
	assert.False(t, disabled.Enabled())
}

func TestSetAndGet(t *testing.T) {
	c := newCache(t)

	require.NoError(t, c.Set("pair", []byte(`{"changed":1}`)))
	got, ok := c.Get("pair")
	require.True(t, ok)
	assert.JSONEq(t, `{"changed":1}`, string(got))

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestSetRejectsInvalidJSON(t *testing.T) {
	c := newCache(t)
	assert.Error(t, c.Set("pair", []byte("not json")))
}

func TestStoreAndLoad(t *testing.T) {
	type summary struct {
		Removed int `json:"removed"`
		Added   int `json:"added"`
	}
	c := newCache(t)

	require.NoError(t, c.Store("pair", summary{Removed: 2, Added: 1}))

	var got summary
	require.True(t, c.Load("pair", &got))
	assert.Equal(t, summary{Removed: 2, Added: 1}, got)

	var bad []string
	assert.False(t, c.Load("pair", &bad), "a type mismatch is a miss")
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("a", "b"), Key("a", "b"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	assert.NotEqual(t, Key("a"), Key("a", ""))
	assert.Len(t, Key(), 64)
}

func TestHashBytes(t *testing.T) {
	h := HashBytes([]byte("class A {}"))
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashBytes([]byte("class A {}")))
	assert.NotEqual(t, h, HashBytes([]byte("class B {}")))
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "A.java")
	require.NoError(t, os.WriteFile(path, []byte("class A {}"), 0644))

	h, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, HashBytes([]byte("class A {}")), h)

	_, err = HashFile(filepath.Join(t.TempDir(), "missing.java"))
	assert.Error(t, err)
}

func TestTTLExpiration(t *testing.T) {
	c := newCache(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set("pair", []byte(`1`)))
	_, ok := c.Get("pair")
	require.True(t, ok)

	now = now.Add(25 * time.Hour)
	_, ok = c.Get("pair")
	assert.False(t, ok)
	assert.NoFileExists(t, c.keyPath("pair"), "expired entries are removed")
}

func TestInvalidateAndClear(t *testing.T) {
	c := newCache(t)
	require.NoError(t, c.Set("a", []byte(`1`)))
	require.NoError(t, c.Set("b", []byte(`2`)))

	require.NoError(t, c.Invalidate("a"))
	require.NoError(t, c.Invalidate("a"))
	_, ok := c.Get("a")
	assert.False(t, ok)

	require.NoError(t, c.Clear())
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestDisabledCache(t *testing.T) {
	c, err := New("", 0, false)
	require.NoError(t, err)

	require.NoError(t, c.Set("a", []byte(`1`)))
	require.NoError(t, c.Store("a", 1))
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate("a"))
	assert.NoError(t, c.Clear())

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestGetStats(t *testing.T) {
	c := newCache(t)
	require.NoError(t, c.Set("a", []byte(`1`)))
	require.NoError(t, c.Set("b", []byte(`"two"`)))

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Positive(t, stats.TotalSize)
}

func TestKeyPath(t *testing.T) {
	c := newCache(t)
	assert.Equal(t, c.keyPath("k"), c.keyPath("k"))
	assert.NotEqual(t, c.keyPath("k"), c.keyPath("j"))
	assert.Equal(t, ".json", filepath.Ext(c.keyPath("unicode/文件 key")))
	assert.Equal(t, c.dir, filepath.Dir(c.keyPath("/path/to/A.java")))
}
