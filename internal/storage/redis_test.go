package storage

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewTokenStore(client), mr
}

func TestTokenStore_Version(t *testing.T) {
	store, _ := setupTokenStore(t)
	ctx := context.Background()

	t.Run("missing key reads as zero", func(t *testing.T) {
		version, err := store.Version(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), version)
	})

	t.Run("bump increments", func(t *testing.T) {
		v1, err := store.BumpVersion(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v1)

		v2, err := store.BumpVersion(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), v2)

		read, err := store.Version(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, v2, read)
	})

	t.Run("users are independent", func(t *testing.T) {
		_, err := store.BumpVersion(ctx, 3)
		require.NoError(t, err)

		version, err := store.Version(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(0), version)
	})
}

func TestTokenStore_Clear(t *testing.T) {
	store, _ := setupTokenStore(t)
	ctx := context.Background()

	_, err := store.BumpVersion(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, 1))

	version, err := store.Version(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
}

func TestTokenStore_CorruptValue(t *testing.T) {
	store, mr := setupTokenStore(t)
	ctx := context.Background()

	mr.Set("user:7:token_version", "not-a-number")

	_, err := store.Version(ctx, 7)
	assert.Error(t, err)
}
