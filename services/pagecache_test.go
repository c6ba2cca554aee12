package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryPageStore(t *testing.T) {
	ctx := context.Background()
	store := &memoryPageStore{entries: make(map[string]memoryEntry)}

	_, ok := store.Get(ctx, "page_cache:/")
	require.False(t, ok)

	store.Set(ctx, "page_cache:/", []byte("<html>главная</html>"), time.Minute)

	body, ok := store.Get(ctx, "page_cache:/")
	require.True(t, ok)
	require.Equal(t, []byte("<html>главная</html>"), body)

	store.Flush(ctx)
	_, ok = store.Get(ctx, "page_cache:/")
	require.False(t, ok)
}

func TestMemoryPageStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := &memoryPageStore{entries: make(map[string]memoryEntry)}

	store.Set(ctx, "page_cache:/short", []byte("данные"), 10*time.Millisecond)

	_, ok := store.Get(ctx, "page_cache:/short")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = store.Get(ctx, "page_cache:/short")
	require.False(t, ok)
}

func TestPageCacheKeyIgnoresTrailingSlash(t *testing.T) {
	ctx := context.Background()
	pc := &PageCacheService{
		store: &memoryPageStore{entries: make(map[string]memoryEntry)},
		ttl:   time.Minute,
	}

	pc.Set(ctx, "/group/cats/", []byte("страница группы"))

	body, ok := pc.Get(ctx, "/group/cats")
	require.True(t, ok)
	require.Equal(t, []byte("страница группы"), body)

	pc.Clear(ctx)
	_, ok = pc.Get(ctx, "/group/cats/")
	require.False(t, ok)
}
