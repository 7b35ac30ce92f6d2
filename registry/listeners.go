package registry

import (
	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Listeners fans every event out to each listener in order.
type Listeners []interfaces.ServiceListener

func (l Listeners) ServiceAvailable(svc domain.Service) {
	for _, listener := range l {
		listener.ServiceAvailable(svc)
	}
}

func (l Listeners) ServiceDropped(svc domain.Service, reason error) {
	for _, listener := range l {
		listener.ServiceDropped(svc, reason)
	}
}

// LogListener writes service events to the logger.
type LogListener struct {
	logger log.Logger
}

func NewLogListener(logger log.Logger) *LogListener {
	return &LogListener{logger: log.With(helpers.NilPanic(logger, "registry.listeners.go: logger is required"), "component", "service_events")}
}

func (l *LogListener) ServiceAvailable(svc domain.Service) {
	level.Info(l.logger).Log(
		"msg", "service available",
		"service_id", svc.ID,
		"service_addr", svc.ServiceAddr(),
		"heartbeat_addr", svc.HeartbeatAddr(),
		"meta", svc.Meta,
	)
}

func (l *LogListener) ServiceDropped(svc domain.Service, reason error) {
	if reason == nil {
		level.Info(l.logger).Log("msg", "service deregistered", "service_id", svc.ID, "service_addr", svc.ServiceAddr())
		return
	}
	level.Warn(l.logger).Log("msg", "service lost", "service_id", svc.ID, "service_addr", svc.ServiceAddr(), "err", reason)
}
