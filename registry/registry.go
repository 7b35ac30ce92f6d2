// Package registry admits services into heartbeat monitoring after they negotiated their ports,
// and drops them when a heartbeat fails or they deregister.
package registry

import (
	"fmt"
	"net"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"myregistry/domain"
	"myregistry/heartbeat"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/pb"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

const mailboxSize = 256

// Config holds the port bases of new sessions and the heartbeat parameters of admitted services.
type Config struct {
	ServicePortBase   uint16
	HeartbeatPortBase uint16
	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
}

type hub = heartbeat.Hub[*pb.HeartbeatRequest, *pb.HeartbeatResponse]

type message interface{ registryMessage() }

type registerService struct{ svc domain.Service }

type resumeService struct{ svc domain.Service }

type heartbeatFailed struct {
	id  uuid.UUID
	err error
}

type deregisterService struct {
	serviceID   domain.ServiceID
	host        net.IP
	servicePort uint16
	reply       chan error
}

type stopRegistry struct{}

func (registerService) registryMessage()   {}
func (resumeService) registryMessage()     {}
func (heartbeatFailed) registryMessage()   {}
func (deregisterService) registryMessage() {}
func (stopRegistry) registryMessage()      {}

// Registry serves the registration protocol and keeps the live services.
//
// Sessions produce services; a loop goroutine admits them into the heartbeat hub, records them
// keyed by their hub target id and notifies the listener. Heartbeat failures and deregistrations
// flow through the same loop, so the listener sees the events of one service in order.
// The services table is read concurrently by Services and Lookup under mu.
type Registry struct {
	sessions *Sessions
	hub      *hub
	listener interfaces.ServiceListener
	metrics  interfaces.Metrics
	logger   log.Logger

	mu       sync.RWMutex
	services map[uuid.UUID]domain.Service

	mailbox  chan message
	stopped  atomic.Bool
	closing  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

var _ interfaces.SessionProtocol = (*Registry)(nil)
var _ interfaces.ServiceDirectory = (*Registry)(nil)
var _ Events = (*Registry)(nil)

// NewRegistry starts the heartbeat hub and the registry loop.
//
// Parameters: config — port bases and heartbeat interval/timeout (zero values use the hub defaults);
// ids — session id generator; clock — registration timestamps; listener — receives
// available/dropped events (use Listeners to fan out); metrics — counters; logger — go-kit logger.
//
// Returns: (*Registry, nil); an error when the heartbeat hub cannot be built.
//
// Called from cmd/registry. Panics on nil collaborators.
func NewRegistry(
	config Config,
	ids interfaces.IDGenerator,
	clock interfaces.TimeProvider,
	listener interfaces.ServiceListener,
	metrics interfaces.Metrics,
	logger log.Logger,
) (*Registry, error) {
	logger = helpers.NilPanic(logger, "registry.registry.go: logger is required")
	metrics = helpers.NilPanic(metrics, "registry.registry.go: metrics is required")

	r := &Registry{
		listener: helpers.NilPanic(listener, "registry.registry.go: listener is required"),
		metrics:  metrics,
		logger:   log.With(logger, "component", "registry"),
		services: make(map[uuid.UUID]domain.Service),
		mailbox:  make(chan message, mailboxSize),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
	}

	h, err := heartbeat.NewHubBuilder[*pb.HeartbeatRequest, *pb.HeartbeatResponse](pb.NewHeartbeatRequest()).
		Interval(config.HeartbeatInterval).
		Timeout(config.HeartbeatTimeout).
		Handler(heartbeat.ResponseHandlerFunc[*pb.HeartbeatResponse](r.onHeartbeat)).
		Logger(logger).
		Metrics(metrics).
		Build()
	if err != nil {
		return nil, fmt.Errorf("create heartbeat hub: %w", err)
	}
	r.hub = h
	r.sessions = NewSessions(
		PortBases{ServicePort: config.ServicePortBase, HeartbeatPort: config.HeartbeatPortBase},
		ids,
		clock,
		r,
		metrics,
		logger,
	)

	go r.loop()
	return r, nil
}

// Register opens a registration session. Returns registry_stopped after Stop.
func (r *Registry) Register(serviceID domain.ServiceID, meta string, host net.IP) (domain.Session, error) {
	if r.stopped.Load() {
		return domain.Session{}, errStopped()
	}
	return r.sessions.Register(serviceID, meta, host)
}

// ReportStatus steps or finishes a session, see Sessions.ReportStatus.
func (r *Registry) ReportStatus(id domain.SessionID, serviceSucceed, heartbeatSucceed bool) (domain.Session, bool) {
	return r.sessions.ReportStatus(id, serviceSucceed, heartbeatSucceed)
}

// Resume admits svc on the ports it already holds. Resuming a service whose service address is
// already live is a no-op. Returns registry_stopped after Stop.
func (r *Registry) Resume(svc domain.Service) error {
	if r.stopped.Load() {
		return errStopped()
	}
	return r.sessions.Resume(svc)
}

// Deregister drops the live service serviceID at host:servicePort, stops its heartbeat and
// fires ServiceDropped with a nil reason.
//
// Returns: nil on success; entity_not_found when no such service is live; registry_stopped after Stop.
func (r *Registry) Deregister(serviceID domain.ServiceID, host net.IP, servicePort uint16) error {
	if r.stopped.Load() {
		return errStopped()
	}
	reply := make(chan error, 1)
	if err := r.send(deregisterService{serviceID: serviceID, host: host, servicePort: servicePort, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-r.closing:
		return errStopped()
	}
}

// RegisterService queues a finished session for admission.
func (r *Registry) RegisterService(svc domain.Service) error {
	return r.send(registerService{svc: svc})
}

// ResumeService queues a resumed service for admission.
func (r *Registry) ResumeService(svc domain.Service) error {
	return r.send(resumeService{svc: svc})
}

// Services returns the live services ordered by service id, then service address.
func (r *Registry) Services() []domain.Service {
	r.mu.RLock()
	services := make([]domain.Service, 0, len(r.services))
	for _, svc := range r.services {
		services = append(services, svc)
	}
	r.mu.RUnlock()

	sortServices(services)
	return services
}

// Lookup returns the live instances of serviceID ordered by service address.
func (r *Registry) Lookup(serviceID domain.ServiceID) []domain.Service {
	r.mu.RLock()
	var services []domain.Service
	for _, svc := range r.services {
		if svc.ID == serviceID {
			services = append(services, svc)
		}
	}
	r.mu.RUnlock()

	sortServices(services)
	return services
}

// OpenSessions returns the number of negotiations in progress.
func (r *Registry) OpenSessions() int {
	return r.sessions.Len()
}

// Stop rejects new registrations, stops heartbeat monitoring and then the loop.
// Live services are forgotten without ServiceDropped events. Safe to call more than once, but not
// from a ServiceListener: Stop waits for the loop that delivers the events.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		r.stopped.Store(true)
		r.hub.Stop()
		r.mailbox <- stopRegistry{}
		<-r.done
		close(r.closing)
		level.Info(r.logger).Log("msg", "registry stopped")
	})
}

func (r *Registry) send(msg message) error {
	if r.stopped.Load() {
		return errStopped()
	}
	select {
	case r.mailbox <- msg:
		return nil
	case <-r.closing:
		return errStopped()
	}
}

// onHeartbeat runs on the hub loop for every probe result.
func (r *Registry) onHeartbeat(id uuid.UUID, _ *pb.HeartbeatResponse, err error) {
	if err == nil {
		return
	}
	_ = r.send(heartbeatFailed{id: id, err: err})
}

func (r *Registry) loop() {
	defer close(r.done)
	for msg := range r.mailbox {
		switch m := msg.(type) {
		case registerService:
			r.admit(m.svc)
		case resumeService:
			r.resume(m.svc)
		case heartbeatFailed:
			r.drop(m.id, m.err)
		case deregisterService:
			m.reply <- r.deregister(m)
		case stopRegistry:
			return
		}
	}
}

func (r *Registry) admit(svc domain.Service) {
	target, err := heartbeat.NewTargetBuilder[*pb.HeartbeatRequest, *pb.HeartbeatResponse](svc.HeartbeatAddr()).Build()
	if err != nil {
		level.Error(r.logger).Log("msg", "build heartbeat target failed", "service_id", svc.ID, "err", err)
		return
	}
	id, err := r.hub.AddTarget(target)
	if err != nil {
		level.Error(r.logger).Log("msg", "service not admitted", "service_id", svc.ID, "addr", svc.ServiceAddr(), "err", err)
		return
	}

	r.mu.Lock()
	r.services[id] = svc
	r.metrics.SetServices(len(r.services))
	r.mu.Unlock()

	r.listener.ServiceAvailable(svc)
}

func (r *Registry) resume(svc domain.Service) {
	r.mu.RLock()
	var live *domain.Service
	for _, s := range r.services {
		if s.ServiceAddr() == svc.ServiceAddr() {
			live = &s
			break
		}
	}
	r.mu.RUnlock()

	if live == nil {
		level.Info(r.logger).Log("msg", "service resumed", "service_id", svc.ID, "addr", svc.ServiceAddr())
		r.admit(svc)
		return
	}
	if live.ID != svc.ID {
		level.Warn(r.logger).Log(
			"msg", "resume claims the address of another live service, ignored",
			"service_id", svc.ID,
			"live_service_id", live.ID,
			"addr", svc.ServiceAddr(),
		)
	}
}

func (r *Registry) drop(id uuid.UUID, reason error) {
	r.mu.Lock()
	svc, ok := r.services[id]
	if ok {
		delete(r.services, id)
		r.metrics.SetServices(len(r.services))
	}
	r.mu.Unlock()
	if !ok {
		return
	}

	level.Warn(r.logger).Log("msg", "service dropped", "service_id", svc.ID, "addr", svc.ServiceAddr(), "err", reason)
	r.listener.ServiceDropped(svc, reason)
}

func (r *Registry) deregister(m deregisterService) error {
	r.mu.Lock()
	var (
		id    uuid.UUID
		svc   domain.Service
		found bool
	)
	for tid, s := range r.services {
		if s.ID == m.serviceID && s.ServicePort == m.servicePort && s.Host.Equal(m.host) {
			id, svc, found = tid, s, true
			break
		}
	}
	if found {
		delete(r.services, id)
		r.metrics.SetServices(len(r.services))
	}
	r.mu.Unlock()

	if !found {
		return service.NewEntityNotFoundError(fmt.Sprintf("service %d on port %d is not registered", m.serviceID, m.servicePort), nil)
	}
	if _, err := r.hub.RemoveTarget(id); err != nil {
		level.Debug(r.logger).Log("msg", "heartbeat target already gone", "target_id", id, "err", err)
	}
	r.metrics.SessionEvent(interfaces.SessionDeregister)

	level.Info(r.logger).Log("msg", "service deregistered", "service_id", svc.ID, "addr", svc.ServiceAddr())
	r.listener.ServiceDropped(svc, nil)
	return nil
}

func sortServices(services []domain.Service) {
	sort.Slice(services, func(i, j int) bool {
		if services[i].ID != services[j].ID {
			return services[i].ID < services[j].ID
		}
		return services[i].ServiceAddr() < services[j].ServiceAddr()
	})
}

func errStopped() error {
	return service.NewRegistryStoppedError("registry is stopped", nil)
}
