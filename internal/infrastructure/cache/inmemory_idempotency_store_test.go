package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	newlyMarked, err := store.MarkProcessed(ctx, "webhook:abc", time.Minute)
	require.NoError(t, err)
	assert.True(t, newlyMarked)

	// Second mark of the same key is a duplicate
	newlyMarked, err = store.MarkProcessed(ctx, "webhook:abc", time.Minute)
	require.NoError(t, err)
	assert.False(t, newlyMarked)

	// A different key is independent
	newlyMarked, err = store.MarkProcessed(ctx, "webhook:def", time.Minute)
	require.NoError(t, err)
	assert.True(t, newlyMarked)
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "known", time.Minute)
	require.NoError(t, err)

	processed, err = store.IsProcessed(ctx, "known")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "short-lived", 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	processed, err := store.IsProcessed(ctx, "short-lived")
	require.NoError(t, err)
	assert.False(t, processed)

	// An expired key can be marked again
	newlyMarked, err := store.MarkProcessed(ctx, "short-lived", time.Minute)
	require.NoError(t, err)
	assert.True(t, newlyMarked)
}

func TestInMemoryIdempotencyStore_ConcurrentMark(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			newlyMarked, err := store.MarkProcessed(ctx, "contended", time.Minute)
			assert.NoError(t, err)
			if newlyMarked {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Exactly one caller observes the first delivery
	assert.Equal(t, 1, wins)
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
