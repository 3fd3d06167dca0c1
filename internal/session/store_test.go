package session

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreOverwrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := t.Context()

	_, ok, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Put(ctx, 1, "first", time.Hour))
	require.NoError(t, store.Put(ctx, 1, "second", time.Hour))

	token, ok, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", token)

	require.NoError(t, store.Delete(ctx, 1))
	_, ok, err = store.Get(ctx, 1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreIsolatesPrincipals(t *testing.T) {
	store := NewMemoryStore()
	ctx := t.Context()

	require.NoError(t, store.Put(ctx, 1, "one", time.Hour))
	require.NoError(t, store.Put(ctx, 2, "two", time.Hour))
	require.NoError(t, store.Delete(ctx, 1))

	token, ok, err := store.Get(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two", token)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := t.Context()

	_, ok, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Put(ctx, 7, "first", time.Hour))
	require.NoError(t, store.Put(ctx, 7, "second", time.Hour))

	token, ok, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", token)

	// Session entries expire with the token TTL.
	mr.FastForward(2 * time.Hour)
	_, ok, err = store.Get(ctx, 7)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Put(ctx, 7, "third", time.Hour))
	require.NoError(t, store.Delete(ctx, 7))
	_, ok, err = store.Get(ctx, 7)
	require.NoError(t, err)
	require.False(t, ok)
}
