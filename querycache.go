package tally

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tallyhq/tally/internal/cache"
	"github.com/tallyhq/tally/model"
)

// QueryCache caches read results per principal. Each principal has a
// generation counter in redis that is part of every key, so bumping it
// invalidates all of the principal's cached queries at once, including
// copies held in the local tier of other processes.
type QueryCache struct {
	redis redis.UniversalClient
	cache cache.Cache
	ttl   time.Duration
}

func NewQueryCache(client redis.UniversalClient, c cache.Cache, ttl time.Duration) *QueryCache {
	return &QueryCache{redis: client, cache: c, ttl: ttl}
}

func generationKey(p model.Principal) string {
	return "tally:generation:" + p.String()
}

func (q *QueryCache) key(ctx context.Context, p model.Principal, query string) (string, error) {
	gen, err := q.redis.Get(ctx, generationKey(p)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s", p, gen, query), nil
}

// Invalidate bumps the generation of every principal given.
func (q *QueryCache) Invalidate(ctx context.Context, principals ...model.Principal) {
	if q == nil {
		return
	}
	for _, p := range principals {
		if err := q.redis.Incr(ctx, generationKey(p)).Err(); err != nil {
			logrus.WithError(err).WithField("principal", p).Error("failed to invalidate query cache")
		}
	}
}

// cached returns the cached result of query for p, running load and storing
// its result on a miss. Cache failures fall through to load.
func cached[T any](ctx context.Context, q *QueryCache, p model.Principal, query string, load func(context.Context) (T, error)) (T, error) {
	if q == nil {
		return load(ctx)
	}

	key, err := q.key(ctx, p, query)
	if err != nil {
		logrus.WithError(err).Warn("query cache generation lookup failed")
		return load(ctx)
	}

	var hit T
	err = q.cache.Get(ctx, key, &hit)
	if err == nil {
		return hit, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logrus.WithError(err).WithField("key", key).Warn("query cache lookup failed")
	}

	result, err := load(ctx)
	if err != nil {
		return result, err
	}
	if err := q.cache.Set(ctx, key, result, q.ttl); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("failed to cache query result")
	}
	return result, nil
}
