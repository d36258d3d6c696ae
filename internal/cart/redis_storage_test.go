package cart_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cart"
)

// newRedisClient connects to REDIS_ADDR or skips the test.
func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return rdb
}

func TestRedisStorage_SharedBetweenClients(t *testing.T) {
	rdb := newRedisClient(t)
	shopper := uuid.NewString()
	t.Cleanup(func() {
		rdb.Del(context.Background(), "storefront:"+shopper+":"+cart.StorageKey)
	})

	tab1 := cart.NewRedisStorage(rdb, shopper)
	tab2 := cart.NewRedisStorage(rdb, shopper)

	_, ok, err := tab1.GetItem(cart.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := tab2.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, tab1.SetItem(cart.StorageKey, `[{"id":"1","quantity":1}]`))

	select {
	case key := <-changes:
		assert.Equal(t, cart.StorageKey, key)
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification")
	}

	val, ok, err := tab2.GetItem(cart.StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1","quantity":1}]`, val)

	// A client does not hear its own writes.
	require.NoError(t, tab2.SetItem(cart.StorageKey, `[]`))
	select {
	case key := <-changes:
		t.Fatalf("unexpected self notification for %s", key)
	case <-time.After(200 * time.Millisecond):
	}
}
