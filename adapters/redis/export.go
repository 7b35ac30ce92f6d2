package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-redis/redis/v8"
)

// ServicePrefix is the key prefix of exported services.
const ServicePrefix = "service"

const writeTimeout = time.Second

// ExportListener mirrors live services into a cache: a record per service instance is written on
// ServiceAvailable and deleted on ServiceDropped. Write failures are logged, never returned to the
// registry.
type ExportListener struct {
	cache  interfaces.Cache[domain.Service]
	ttlMs  int
	logger log.Logger
}

var _ interfaces.ServiceListener = (*ExportListener)(nil)

// NewExportListener exports into cache with records expiring after ttlMs (0 keeps them until dropped).
func NewExportListener(cache interfaces.Cache[domain.Service], ttlMs int, logger log.Logger) *ExportListener {
	return &ExportListener{
		cache:  helpers.NilPanic(cache, "adapters.redis.export.go: cache is required"),
		ttlMs:  ttlMs,
		logger: log.With(helpers.NilPanic(logger, "adapters.redis.export.go: logger is required"), "component", "redis_export"),
	}
}

// NewServiceCache stores services as JSON under ServicePrefix.
func NewServiceCache(client redis.UniversalClient) *redisCache[domain.Service] {
	return NewCache[domain.Service](client, ServicePrefix, marshalService, unmarshalService)
}

// ServiceKey is the cache key of one service instance.
func ServiceKey(svc domain.Service) string {
	return fmt.Sprintf("%d@%s", svc.ID, svc.ServiceAddr())
}

func (l *ExportListener) ServiceAvailable(svc domain.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := l.cache.WriteValue(ctx, ServiceKey(svc), svc, l.ttlMs); err != nil {
		level.Warn(l.logger).Log("msg", "export service failed", "key", ServiceKey(svc), "err", err)
	}
}

func (l *ExportListener) ServiceDropped(svc domain.Service, _ error) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := l.cache.DeleteValue(ctx, ServiceKey(svc)); err != nil {
		level.Warn(l.logger).Log("msg", "remove exported service failed", "key", ServiceKey(svc), "err", err)
	}
}

// Purge deletes the records left by a previous registry run, whose services are not live here.
//
// Returns: the number of records deleted; internal_server_error when the cache cannot be listed.
func (l *ExportListener) Purge(ctx context.Context) (int, error) {
	stale, err := l.cache.ListAllValues(ctx)
	if err != nil {
		if service.IsEntityNotFound(err) {
			return 0, nil
		}
		return 0, err
	}

	purged := 0
	for _, svc := range stale {
		if err := l.cache.DeleteValue(ctx, ServiceKey(svc)); err != nil {
			return purged, err
		}
		purged++
	}
	level.Info(l.logger).Log("msg", "stale exported services purged", "count", purged)
	return purged, nil
}

func marshalService(svc domain.Service) ([]byte, error) { return json.Marshal(svc) }

func unmarshalService(b []byte) (domain.Service, error) {
	var svc domain.Service
	err := json.Unmarshal(b, &svc)
	return svc, err
}
