package registry_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate"
	"github.com/dmitrymomot/tenantgate/registry"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	t.Run("stores and retrieves record", func(t *testing.T) {
		t.Parallel()

		cache := registry.NewMemoryCache(time.Hour)
		t.Cleanup(func() { _ = cache.Close() })
		rec := testRecord(1, true)

		cache.Set(context.Background(), rec.ID, rec)

		got, ok := cache.Get(context.Background(), rec.ID)
		require.True(t, ok)
		assert.Equal(t, rec, got)
	})

	t.Run("returns false for missing tenant", func(t *testing.T) {
		t.Parallel()

		cache := registry.NewMemoryCache(time.Hour)
		t.Cleanup(func() { _ = cache.Close() })

		got, ok := cache.Get(context.Background(), 42)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("respects TTL expiration", func(t *testing.T) {
		t.Parallel()

		cache := registry.NewMemoryCache(10 * time.Millisecond)
		t.Cleanup(func() { _ = cache.Close() })
		rec := testRecord(1, true)

		cache.Set(context.Background(), rec.ID, rec)

		// Present immediately.
		_, ok := cache.Get(context.Background(), rec.ID)
		require.True(t, ok)

		time.Sleep(20 * time.Millisecond)

		got, ok := cache.Get(context.Background(), rec.ID)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("overwrites existing record", func(t *testing.T) {
		t.Parallel()

		cache := registry.NewMemoryCache(time.Hour)
		t.Cleanup(func() { _ = cache.Close() })
		first := testRecord(1, true)
		second := testRecord(1, false)
		second.Name = "renamed"

		cache.Set(context.Background(), 1, first)
		cache.Set(context.Background(), 1, second)

		got, ok := cache.Get(context.Background(), 1)
		require.True(t, ok)
		assert.Equal(t, second, got)
	})

	t.Run("deletes record", func(t *testing.T) {
		t.Parallel()

		cache := registry.NewMemoryCache(time.Hour)
		t.Cleanup(func() { _ = cache.Close() })
		rec := testRecord(1, true)

		cache.Set(context.Background(), rec.ID, rec)
		_, ok := cache.Get(context.Background(), rec.ID)
		require.True(t, ok)

		cache.Delete(context.Background(), rec.ID)

		_, ok = cache.Get(context.Background(), rec.ID)
		assert.False(t, ok)
	})

	t.Run("evicts least recently used at capacity", func(t *testing.T) {
		t.Parallel()

		cache := registry.NewMemoryCacheWithSize(time.Hour, 2)
		t.Cleanup(func() { _ = cache.Close() })

		cache.Set(context.Background(), 1, testRecord(1, true))
		cache.Set(context.Background(), 2, testRecord(2, true))
		cache.Set(context.Background(), 3, testRecord(3, true))

		_, ok := cache.Get(context.Background(), 1)
		assert.False(t, ok, "oldest record should be evicted")
		_, ok = cache.Get(context.Background(), 2)
		assert.True(t, ok)
		_, ok = cache.Get(context.Background(), 3)
		assert.True(t, ok)
	})

	t.Run("get refreshes recency", func(t *testing.T) {
		t.Parallel()

		cache := registry.NewMemoryCacheWithSize(time.Hour, 2)
		t.Cleanup(func() { _ = cache.Close() })

		cache.Set(context.Background(), 1, testRecord(1, true))
		cache.Set(context.Background(), 2, testRecord(2, true))

		// Touch 1 so 2 becomes the eviction candidate.
		_, ok := cache.Get(context.Background(), 1)
		require.True(t, ok)

		cache.Set(context.Background(), 3, testRecord(3, true))

		_, ok = cache.Get(context.Background(), 1)
		assert.True(t, ok)
		_, ok = cache.Get(context.Background(), 2)
		assert.False(t, ok)
		_, ok = cache.Get(context.Background(), 3)
		assert.True(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		cache := registry.NewMemoryCache(time.Hour)
		require.NoError(t, cache.Close())
		require.NoError(t, cache.Close())
	})

	t.Run("handles concurrent access", func(t *testing.T) {
		t.Parallel()

		cache := registry.NewMemoryCacheWithSize(time.Hour, 100)
		t.Cleanup(func() { _ = cache.Close() })

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(2)
			id := tenantgate.ID(i + 1)
			go func() {
				defer wg.Done()
				cache.Set(context.Background(), id, testRecord(id, true))
			}()
			go func() {
				defer wg.Done()
				cache.Get(context.Background(), id)
			}()
		}
		wg.Wait()

		for i := range 50 {
			id := tenantgate.ID(i + 1)
			got, ok := cache.Get(context.Background(), id)
			require.True(t, ok, fmt.Sprintf("record %d missing after concurrent writes", id))
			assert.Equal(t, id, got.ID)
		}
	})
}

func TestNopCache(t *testing.T) {
	t.Parallel()

	cache := registry.NewNopCache()

	cache.Set(context.Background(), 1, testRecord(1, true))

	got, ok := cache.Get(context.Background(), 1)
	assert.False(t, ok)
	assert.Nil(t, got)

	cache.Delete(context.Background(), 1)
	assert.NoError(t, cache.Close())
}
