package cache

import (
	"context"
	"os"
	"testing"

	"github.com/bilgisen/gazette/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTripCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, found, err := store.Get(ctx, "agency_gazettes")
	require.NoError(t, err)
	assert.False(t, found)

	blob := []byte(`[{"id":"1"}]`)
	require.NoError(t, store.Set(ctx, "agency_gazettes", blob))
	blob[0] = 'X'

	data, found, err := store.Get(ctx, "agency_gazettes")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, string(data))
}

func TestRedisStore_RoundTrip(t *testing.T) {
	url := os.Getenv("GAZETTE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("GAZETTE_TEST_REDIS_URL not set")
	}

	store, err := NewRedisStore(&config.Config{RedisURL: url, RedisPrefix: "gazette-test:"})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "agency_gazettes", []byte("[]")))

	data, found, err := store.Get(ctx, "agency_gazettes")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", string(data))

	_, found, err = store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore(&config.Config{RedisURL: "not a url"})
	assert.Error(t, err)
}
