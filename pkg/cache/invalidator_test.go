package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cachedTitles(t *testing.T, store *memStore, key string) []string {
	t.Helper()
	data, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	var list []listing
	require.NoError(t, json.Unmarshal(data, &list))
	titles := make([]string, 0, len(list))
	for _, item := range list {
		titles = append(titles, item.Title)
	}
	return titles
}

func TestPrependBounded_MissingListStartsFresh(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	inv := NewInvalidator(store)

	err := inv.PrependBounded(ctx, "cards_cache", listing{ID: "c1", Title: "first"}, 50, time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, []string{"first"}, cachedTitles(t, store, "cards_cache"))
}

func TestPrependBounded_NewestFirstOldestDropped(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	inv := NewInvalidator(store)

	for _, title := range []string{"a", "b", "c", "d"} {
		require.NoError(t, inv.PrependBounded(ctx, "cards_cache", listing{Title: title}, 3, time.Minute))
	}

	assert.Equal(t, []string{"d", "c", "b"}, cachedTitles(t, store, "cards_cache"))
}

func TestPrependBounded_CorruptListRestarts(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	inv := NewInvalidator(store)

	require.NoError(t, store.Set(ctx, "cards_cache", []byte("[broken"), 0))
	require.NoError(t, inv.PrependBounded(ctx, "cards_cache", listing{Title: "fresh"}, 50, time.Minute))

	assert.Equal(t, []string{"fresh"}, cachedTitles(t, store, "cards_cache"))
}

func TestPrependBounded_RefreshesTTL(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	inv := NewInvalidator(store)

	require.NoError(t, inv.PrependBounded(ctx, "cards_cache", listing{Title: "a"}, 50, 20*time.Millisecond))
	time.Sleep(15 * time.Millisecond)
	require.NoError(t, inv.PrependBounded(ctx, "cards_cache", listing{Title: "b"}, 50, 20*time.Millisecond))
	time.Sleep(15 * time.Millisecond)

	// the second prepend reset the clock, both entries are still there
	assert.Equal(t, []string{"b", "a"}, cachedTitles(t, store, "cards_cache"))
}

func TestDeleteKeys(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	inv := NewInvalidator(store)

	require.NoError(t, store.Set(ctx, "card::c1", []byte(`{}`), 0))
	require.NoError(t, store.Set(ctx, "cards_cache", []byte(`[]`), 0))

	assert.NoError(t, inv.DeleteKeys(ctx, "card::c1", "cards_cache", "never_existed"))

	_, err := store.Get(ctx, "card::c1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = store.Get(ctx, "cards_cache")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
