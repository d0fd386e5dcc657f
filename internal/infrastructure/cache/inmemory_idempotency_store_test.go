package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("first mark wins, repeat is rejected", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		fresh, err := store.MarkProcessed(ctx, "sub-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = store.MarkProcessed(ctx, "sub-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("distinct keys do not collide", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		fresh, err := store.MarkProcessed(ctx, "sub-a", time.Minute)
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = store.MarkProcessed(ctx, "sub-b", time.Minute)
		require.NoError(t, err)
		assert.True(t, fresh)
	})

	t.Run("expired key can be marked again", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		fresh, err := store.MarkProcessed(ctx, "sub-ttl", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, fresh)

		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "sub-ttl")
		require.NoError(t, err)
		assert.False(t, processed)

		fresh, err = store.MarkProcessed(ctx, "sub-ttl", time.Minute)
		require.NoError(t, err)
		assert.True(t, fresh)
	})

	t.Run("is processed reflects mark", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		processed, err := store.IsProcessed(ctx, "never-seen")
		require.NoError(t, err)
		assert.False(t, processed)

		_, err = store.MarkProcessed(ctx, "seen", time.Minute)
		require.NoError(t, err)

		processed, err = store.IsProcessed(ctx, "seen")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("concurrent marks admit exactly one", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		var wg sync.WaitGroup
		var admitted sync.Map
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				fresh, err := store.MarkProcessed(ctx, "contended", time.Minute)
				assert.NoError(t, err)
				if fresh {
					admitted.Store(n, true)
				}
			}(i)
		}
		wg.Wait()

		var winners int
		admitted.Range(func(_, _ interface{}) bool {
			winners++
			return true
		})
		assert.Equal(t, 1, winners)
	})

	t.Run("sweep drops expired entries", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		for i := 0; i < 5; i++ {
			_, err := store.MarkProcessed(ctx, fmt.Sprintf("old-%d", i), time.Millisecond)
			require.NoError(t, err)
		}
		_, err := store.MarkProcessed(ctx, "live", time.Hour)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		store.sweep()

		assert.Equal(t, 1, store.Size())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())
	})
}
