package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New[string, int]()
	c.Set("a", 1, 0)

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestExpiration(t *testing.T) {
	c := New[string, string]()
	c.Set("k", "v", time.Minute)

	orig := now
	defer func() { now = orig }()
	now = func() time.Time { return orig().Add(2 * time.Minute) }

	_, ok := c.Get("k")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())

	c.PurgeExpired()
	c.mu.RLock()
	require.Empty(t, c.items)
	c.mu.RUnlock()
}

func TestDelete(t *testing.T) {
	c := New[string, int]()
	c.Set("a", 1, 0)
	c.Delete("a")
	_, ok := c.Get("a")
	require.False(t, ok)
}
