// Package redis publishes the live services of the registry to redis, so that consumers without
// access to the registry API can discover them.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-redis/redis/v8"
)

const scanBatch = 100

type redisCache[T any] struct {
	client    redis.UniversalClient
	prefix    string
	marshal   func(T) ([]byte, error)
	unmarshal func([]byte) (T, error)
}

var _ interfaces.Cache[struct{}] = (*redisCache[struct{}])(nil)

// NewCache creates the redis implementation of interfaces.Cache. Every key is stored as prefix:key.
func NewCache[T any](
	client redis.UniversalClient,
	prefix string,
	marshal func(T) ([]byte, error),
	unmarshal func([]byte) (T, error),
) *redisCache[T] {
	return &redisCache[T]{
		client:    client,
		prefix:    prefix,
		marshal:   marshal,
		unmarshal: unmarshal,
	}
}

func (r *redisCache[T]) WriteValue(ctx context.Context, key string, item T, ttlMs int) error {
	bytes, err := r.marshal(item)
	if err != nil {
		return service.NewInternalServerError("redis marshal item error", fmt.Errorf("can't marshal item of type %T, err: %w", item, err))
	}

	var ttl time.Duration
	if ttlMs > 0 {
		ttl = time.Duration(ttlMs) * time.Millisecond
	}
	if err := r.client.Set(ctx, r.generateKey(key), bytes, ttl).Err(); err != nil {
		return service.NewInternalServerError("redis write key error", fmt.Errorf("can't write item of type %T to redis (key='%s'), err: %w", item, key, err))
	}
	return nil
}

func (r *redisCache[T]) DeleteValue(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.generateKey(key)).Err(); err != nil {
		return service.NewInternalServerError("redis delete key error", fmt.Errorf("can't delete key '%s' from redis, err: %w", key, err))
	}
	return nil
}

// ListAllValues scans the keys under the prefix and fetches their values. Values that vanished
// between the scan and the read, or do not unmarshal, are skipped.
func (r *redisCache[T]) ListAllValues(ctx context.Context) ([]T, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+":*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, service.NewInternalServerError("redis scan keys error", fmt.Errorf("redis scan keys error, err: %w", err))
	}
	if len(keys) == 0 {
		return nil, service.NewEntityNotFoundError("entity not found", nil)
	}

	items := make([]T, 0, len(keys))
	for _, key := range keys {
		bytes, err := r.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		item, err := r.unmarshal(bytes)
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, service.NewEntityNotFoundError("entity not found", nil)
	}
	return items, nil
}

func (r *redisCache[T]) generateKey(key string) string {
	return r.prefix + ":" + strings.TrimPrefix(key, r.prefix+":")
}
