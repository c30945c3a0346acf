/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = cache.ErrCacheMiss

// Cache is the key/value store used for query results and lookups.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get decodes the cached value into data, or returns ErrMiss.
	Get(ctx context.Context, key string, data interface{}) error
	Delete(ctx context.Context, key string) error
}

// cacheSize is the number of entries held by the local TinyLFU tier.
const cacheSize = 128000

// RedisCache keeps values in redis with a short lived in process tier in front.
type RedisCache struct {
	cache *cache.Cache
}

// NewRedisCache builds a cache on top of an existing client. A zero localTTL
// disables the in process tier.
func NewRedisCache(client redis.UniversalClient, localTTL time.Duration) *RedisCache {
	opts := &cache.Options{Redis: client}
	if localTTL > 0 {
		opts.LocalCache = cache.NewTinyLFU(cacheSize, localTTL)
	}
	return &RedisCache{cache: cache.New(opts)}
}

func (r *RedisCache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	return r.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: data,
		TTL:   ttl,
	})
}

func (r *RedisCache) Get(ctx context.Context, key string, data interface{}) error {
	err := r.cache.Get(ctx, key, data)
	if errors.Is(err, cache.ErrCacheMiss) {
		return ErrMiss
	}
	return err
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	err := r.cache.Delete(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}
