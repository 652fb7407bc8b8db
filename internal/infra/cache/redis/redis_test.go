package redisx

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(Config{Addr: mr.Addr()}, zaptest.NewLogger(t))
	t.Cleanup(c.Close)
	return c, mr
}

func setTagged(t *testing.T, c *Cache, key, tag string, val string, ttl time.Duration) {
	t.Helper()
	gen, err := c.Generation(context.Background(), tag)
	require.NoError(t, err)
	stored, err := c.SetTagged(context.Background(), key, tag, gen, []byte(val), ttl)
	require.NoError(t, err)
	require.True(t, stored)
}

func TestGetSetTagged(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	setTagged(t, c, "k", "cachetag:owner:u1", "v", time.Minute)
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidateTagDropsOnlyTaggedKeys(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	setTagged(t, c, "dashboard_stats:u1", "cachetag:owner:u1", "a", time.Minute)
	setTagged(t, c, "portfolio:u1", "cachetag:owner:u1", "b", time.Hour)
	setTagged(t, c, "portfolio:u2", "cachetag:owner:u2", "c", time.Hour)

	assert.Equal(t, time.Minute, mr.TTL("dashboard_stats:u1"))
	members, err := mr.Members("cachetag:owner:u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dashboard_stats:u1", "portfolio:u1"}, members)

	require.NoError(t, c.InvalidateTag(ctx, "cachetag:owner:u1"))

	assert.False(t, mr.Exists("dashboard_stats:u1"))
	assert.False(t, mr.Exists("portfolio:u1"))
	assert.False(t, mr.Exists("cachetag:owner:u1"))
	assert.True(t, mr.Exists("portfolio:u2"))

	// пустой тег — не ошибка
	require.NoError(t, c.InvalidateTag(ctx, "cachetag:owner:nobody"))
}

func TestTagExpiresWithLongestMember(t *testing.T) {
	c, mr := newTestCache(t)

	setTagged(t, c, "portfolio:u1", "cachetag:owner:u1", "b", time.Hour)
	assert.Equal(t, time.Hour, mr.TTL("cachetag:owner:u1"))

	// более короткий участник не укорачивает тег
	setTagged(t, c, "dashboard_stats:u1", "cachetag:owner:u1", "a", time.Minute)
	assert.Equal(t, time.Hour, mr.TTL("cachetag:owner:u1"))

	mr.FastForward(2 * time.Hour)
	assert.False(t, mr.Exists("cachetag:owner:u1"))
}

func TestSetTaggedRejectsStaleGeneration(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	const tag = "cachetag:owner:u1"

	gen, err := c.Generation(ctx, tag)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	// инвалидация между чтением поколения и записью
	require.NoError(t, c.InvalidateTag(ctx, tag))
	stored, err := c.SetTagged(ctx, "dashboard_stats:u1", tag, gen, []byte("stale"), time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists("dashboard_stats:u1"))

	gen, err = c.Generation(ctx, tag)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
	stored, err = c.SetTagged(ctx, "dashboard_stats:u1", tag, gen, []byte("fresh"), time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)
	got, _, err := c.Get(ctx, "dashboard_stats:u1")
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), got)
}

func TestSetNXAndExists(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	ok, err := c.SetNX(ctx, "jti:1", []byte("1"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "jti:1", []byte("1"), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	exists, err := c.Exists(ctx, "jti:1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.Exists(ctx, "jti:2")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestErrorsSurfaceWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()

	_, _, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, c.InvalidateTag(ctx, "cachetag:owner:u1"))
	_, err = c.Generation(ctx, "cachetag:owner:u1")
	assert.Error(t, err)
	_, err = c.SetTagged(ctx, "k", "cachetag:owner:u1", 0, []byte("v"), time.Minute)
	assert.Error(t, err)
	assert.Error(t, c.Ping(ctx))
}
