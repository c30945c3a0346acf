package tally

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/cache"
)

func newQueryCache(t *testing.T, localTTL time.Duration) (*QueryCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewQueryCache(client, cache.NewRedisCache(client, localTTL), time.Minute), mr
}

func TestCached_InvalidateByGeneration(t *testing.T) {
	for _, localTTL := range []time.Duration{0, time.Minute} {
		q, _ := newQueryCache(t, localTTL)
		ctx := context.Background()
		loads := 0
		load := func(context.Context) ([]int64, error) {
			loads++
			return []int64{int64(loads)}, nil
		}

		first, err := cached(ctx, q, alice, "numbers", load)
		require.NoError(t, err)
		second, err := cached(ctx, q, alice, "numbers", load)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, loads)

		// another principal's generation does not affect alice
		q.Invalidate(ctx, bob)
		_, err = cached(ctx, q, alice, "numbers", load)
		require.NoError(t, err)
		assert.Equal(t, 1, loads)

		q.Invalidate(ctx, alice)
		third, err := cached(ctx, q, alice, "numbers", load)
		require.NoError(t, err)
		assert.Equal(t, []int64{2}, third)
	}
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	q, _ := newQueryCache(t, 0)
	ctx := context.Background()
	calls := 0
	failing := func(context.Context) (string, error) {
		calls++
		return "", errors.New("boom")
	}

	_, err := cached(ctx, q, alice, "q", failing)
	require.Error(t, err)
	_, err = cached(ctx, q, alice, "q", failing)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestCached_RedisDownFallsThrough(t *testing.T) {
	q, mr := newQueryCache(t, 0)
	mr.Close()

	value, err := cached(context.Background(), q, alice, "q", func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", value)
}

func TestNilQueryCache(t *testing.T) {
	var q *QueryCache
	q.Invalidate(context.Background(), alice)
	value, err := cached(context.Background(), q, alice, "q", func(context.Context) (int, error) { return 4, nil })
	require.NoError(t, err)
	assert.Equal(t, 4, value)
}
