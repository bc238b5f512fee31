package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilClientIsAMiss(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestUnreachableRedisFailsSafe(t *testing.T) {
	c := New("127.0.0.1:1", "", 0)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.Error(t, c.Ping(ctx))
}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_SetThenGetHits(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Set(ctx, "user:7", []byte(`{"id":7}`), time.Minute))

	got, err := c.Get(ctx, "user:7")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":7}`), got)
	assert.Equal(t, time.Minute, mr.TTL("user:7"))
}

func TestClient_MissingAndExpiredKeysAreMisses(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	got, err := c.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "short", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	got, err = c.Get(ctx, "short")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_RedisGoingAwayBecomesAMiss(t *testing.T) {
	c, mr := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	mr.Close()

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
