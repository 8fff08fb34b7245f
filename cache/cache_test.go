package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c, err := New[[]float32]()
	require.NoError(t, err)
	defer c.Close()

	vec := []float32{0.1, 0.2, 0.3}
	c.Set("k1", vec, int64(len(vec)*4))
	c.Wait()

	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, vec, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_Delete(t *testing.T) {
	c, err := New[string]()
	require.NoError(t, err)
	defer c.Close()

	c.Set("k", "v", 1)
	c.Wait()
	c.Delete("k")
	c.Wait()

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_TTLExpiry(t *testing.T) {
	c, err := New[string](WithTTL(20 * time.Millisecond))
	require.NoError(t, err)
	defer c.Close()

	c.Set("k", "v", 1)
	c.Wait()

	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_Stats(t *testing.T) {
	c, err := New[string]()
	require.NoError(t, err)
	defer c.Close()

	c.Set("k", "v", 1)
	c.Wait()

	c.Get("k")
	c.Get("absent")

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(1), stats.KeysAdded)
}

func TestCache_SetNeverBlocks(t *testing.T) {
	// A tiny cost budget forces constant eviction pressure; inserts must
	// still return promptly.
	c, err := New[string](WithMaxCost(64), WithMaxEntries(16))
	require.NoError(t, err)
	defer c.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10_000; i++ {
			c.Set(fmt.Sprintf("key-%d", i), "value", 16)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("inserts blocked under eviction pressure")
	}
}

func TestContentKey_TenantIsolation(t *testing.T) {
	a := ContentKey(1, "embeddinggemma", "identical text")
	b := ContentKey(2, "embeddinggemma", "identical text")
	assert.NotEqual(t, a, b, "tenants must never share cache entries")
}

func TestContentKey_ModelAndText(t *testing.T) {
	base := ContentKey(1, "embeddinggemma", "some text")

	assert.Equal(t, base, ContentKey(1, "embeddinggemma", "some text"))
	assert.NotEqual(t, base, ContentKey(1, "other-model", "some text"))
	assert.NotEqual(t, base, ContentKey(1, "embeddinggemma", "other text"))
}
