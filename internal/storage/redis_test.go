package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovenlight/storefront/internal/domain"
)

// setupTestRedis creates a miniredis server and returns a RedisStore instance
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestRoundTrip(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	lines := []domain.CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 7, Quantity: 1},
	}

	require.NoError(t, store.Save(ctx, lines))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestLoad_AbsentKey(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoad_ExpiredSnapshot(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	// Write a snapshot stamped 25 hours in the past.
	stale := snapshot{
		Cart:      []snapshotLine{{ProductID: 1, Quantity: 2}},
		Timestamp: time.Now().Add(-25 * time.Hour).UnixMilli(),
	}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, mr.Set(Key, string(data)))

	got, loadErr := store.Load(context.Background())
	require.NoError(t, loadErr)
	assert.Empty(t, got)

	// The stale record must also be cleared from storage.
	assert.False(t, mr.Exists(Key))
}

func TestLoad_SnapshotJustUnderExpiry(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	fresh := snapshot{
		Cart:      []snapshotLine{{ProductID: 3, Quantity: 4}},
		Timestamp: time.Now().Add(-23 * time.Hour).UnixMilli(),
	}
	data, err := json.Marshal(fresh)
	require.NoError(t, err)
	require.NoError(t, mr.Set(Key, string(data)))

	got, loadErr := store.Load(context.Background())
	require.NoError(t, loadErr)
	assert.Equal(t, []domain.CartLine{{ProductID: 3, Quantity: 4}}, got)
}

func TestLoad_CorruptSnapshot(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, mr.Set(Key, "{not json"))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClear(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, []domain.CartLine{{ProductID: 1, Quantity: 1}}))
	require.True(t, mr.Exists(Key))

	require.NoError(t, store.Clear(ctx))
	assert.False(t, mr.Exists(Key))
}

func TestSave_SetsStorageTTL(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, store.Save(context.Background(), []domain.CartLine{{ProductID: 1, Quantity: 1}}))

	ttl := mr.TTL(Key)
	assert.Equal(t, SnapshotTTL, ttl, fmt.Sprintf("expected snapshot TTL, got %v", ttl))
}
