package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, localTTL time.Duration) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, localTTL), mr
}

func TestSetGet(t *testing.T) {
	c, mr := newTestCache(t, 0)
	ctx := context.Background()

	value := map[string]int64{"total_lent": 500}
	require.NoError(t, c.Set(ctx, "summary", value, time.Minute))
	assert.True(t, mr.Exists("summary"))

	var got map[string]int64
	require.NoError(t, c.Get(ctx, "summary", &got))
	assert.Equal(t, value, got)
}

func TestGetMiss(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	var got []string
	err := c.Get(context.Background(), "missing", &got)
	assert.ErrorIs(t, err, ErrMiss)
	assert.Nil(t, got)
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k"))

	var got string
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
}
