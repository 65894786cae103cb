package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	c := New(s.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, s
}

func TestClient_SetGetJSON(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()

	c.SetJSON(ctx, "user:1", profile{ID: "1", Username: "jane.doe"}, time.Minute)

	var got profile
	require.True(t, c.GetJSON(ctx, "user:1", &got))
	assert.Equal(t, "jane.doe", got.Username)
	assert.Equal(t, time.Minute, s.TTL("user:1"))
}

func TestClient_Miss(t *testing.T) {
	c, _ := newTestClient(t)

	var got profile
	assert.False(t, c.GetJSON(context.Background(), "user:missing", &got))
}

func TestClient_Expiry(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()

	c.SetJSON(ctx, "user:1", profile{ID: "1"}, time.Second)
	s.FastForward(2 * time.Second)

	var got profile
	assert.False(t, c.GetJSON(ctx, "user:1", &got))
}

func TestClient_Delete(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()

	c.SetJSON(ctx, "user:1", profile{ID: "1"}, time.Minute)
	c.Delete(ctx, "user:1")

	assert.False(t, s.Exists("user:1"))
}

func TestClient_UndecodableEntryIsMiss(t *testing.T) {
	c, s := newTestClient(t)
	require.NoError(t, s.Set("user:1", "not-json"))

	var got profile
	assert.False(t, c.GetJSON(context.Background(), "user:1", &got))
}

func TestClient_FailSafeWhenRedisDown(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()
	s.Close()

	c.SetJSON(ctx, "user:1", profile{ID: "1"}, time.Minute)
	c.Delete(ctx, "user:1")

	var got profile
	assert.False(t, c.GetJSON(ctx, "user:1", &got))
	assert.Error(t, c.Ping(ctx))
}

func TestClient_NilIsSafe(t *testing.T) {
	var c *Client
	ctx := context.Background()

	c.SetJSON(ctx, "k", profile{}, time.Minute)
	c.Delete(ctx, "k")

	var got profile
	assert.False(t, c.GetJSON(ctx, "k", &got))
	assert.NoError(t, c.Close())
}
