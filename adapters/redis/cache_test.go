package redis

import (
	"context"
	"testing"
	"time"

	"myregistry/domain"
	"myregistry/service"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRedisAddr = "redis://localhost:6379/15"
const testPrefix = "test_service"

// setupTestRedis connects to a local redis and clears the test prefix. The test is skipped when
// no redis is reachable.
func setupTestRedis(t *testing.T) redis.UniversalClient {
	t.Helper()
	client, err := NewRedisUniversalClient(testRedisAddr, func(o *redis.Options) {
		o.DialTimeout = 200 * time.Millisecond
		o.MaxRetries = -1
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis is not available at %s: %v", testRedisAddr, err)
	}

	flush := func() {
		keys, _ := client.Keys(context.Background(), testPrefix+":*").Result()
		if len(keys) > 0 {
			client.Del(context.Background(), keys...)
		}
	}
	flush()
	t.Cleanup(func() {
		flush()
		_ = client.Close()
	})
	return client
}

func newTestCache(client redis.UniversalClient) *redisCache[domain.Service] {
	return NewCache[domain.Service](client, testPrefix, marshalService, unmarshalService)
}

func TestCache_WriteAndList(t *testing.T) {
	ctx := context.Background()
	client := setupTestRedis(t)
	cache := newTestCache(client)

	_, err := cache.ListAllValues(ctx)
	assert.True(t, service.IsEntityNotFound(err))

	require.NoError(t, cache.WriteValue(ctx, ServiceKey(exported), exported, 60000))

	items, err := cache.ListAllValues(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, exported.ID, items[0].ID)
	assert.Equal(t, exported.ServicePort, items[0].ServicePort)

	ttl, err := client.TTL(ctx, testPrefix+":"+ServiceKey(exported)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestCache_NoExpiry(t *testing.T) {
	ctx := context.Background()
	client := setupTestRedis(t)
	cache := newTestCache(client)

	require.NoError(t, cache.WriteValue(ctx, "k", exported, 0))
	ttl, err := client.TTL(ctx, testPrefix+":k").Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)
}

func TestCache_DeleteValue(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(setupTestRedis(t))

	require.NoError(t, cache.WriteValue(ctx, "k", exported, 60000))
	require.NoError(t, cache.DeleteValue(ctx, "k"))

	items, err := cache.ListAllValues(ctx)
	assert.True(t, service.IsEntityNotFound(err))
	assert.Nil(t, items)
}

func TestCache_InvalidValuesSkipped(t *testing.T) {
	ctx := context.Background()
	client := setupTestRedis(t)
	cache := newTestCache(client)

	require.NoError(t, client.Set(ctx, testPrefix+":bad", "invalid json", 0).Err())
	_, err := cache.ListAllValues(ctx)
	assert.True(t, service.IsEntityNotFound(err))

	require.NoError(t, cache.WriteValue(ctx, "good", exported, 0))
	items, err := cache.ListAllValues(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCache_ClosedClient(t *testing.T) {
	client, err := NewRedisUniversalClient(testRedisAddr)
	require.NoError(t, err)
	require.NoError(t, client.Close())
	cache := newTestCache(client)

	err = cache.WriteValue(context.Background(), "x", exported, 0)
	assert.True(t, service.IsInternalServerError(err))
	err = cache.DeleteValue(context.Background(), "x")
	assert.True(t, service.IsInternalServerError(err))
	_, err = cache.ListAllValues(context.Background())
	assert.True(t, service.IsInternalServerError(err))
}

func TestCache_GenerateKey(t *testing.T) {
	cache := NewCache[domain.Service](nil, "service", marshalService, unmarshalService)
	assert.Equal(t, "service:1@h:2", cache.generateKey("1@h:2"))
	assert.Equal(t, "service:k", cache.generateKey("service:k"))
}
