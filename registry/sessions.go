package registry

import (
	"net"
	"sync"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Events receives the services produced by the session protocol.
// Implemented by Registry, which admits them into heartbeat monitoring.
type Events interface {
	// RegisterService is emitted exactly once per session, when both ports succeeded.
	RegisterService(svc domain.Service) error
	// ResumeService is emitted for every Resume call.
	ResumeService(svc domain.Service) error
}

// PortBases are the first candidate ports handed out to every new session.
type PortBases struct {
	ServicePort   uint16
	HeartbeatPort uint16
}

// Sessions is the table of in-progress port negotiations.
//
// A session is opened by Register with both candidates at their base, stepped by ReportStatus
// for every failed dimension, and closed by the ReportStatus that reports both ports bound.
// Closing converts it into a domain.Service handed to Events.RegisterService. Resume skips the
// negotiation and hands the service over directly. The table lock is never held while calling
// Events.
type Sessions struct {
	bases   PortBases
	ids     interfaces.IDGenerator
	clock   interfaces.TimeProvider
	events  Events
	metrics interfaces.Metrics
	logger  log.Logger

	mu    sync.Mutex
	table map[domain.SessionID]*domain.Session
}

// NewSessions creates an empty session table. Panics on nil collaborators.
func NewSessions(
	bases PortBases,
	ids interfaces.IDGenerator,
	clock interfaces.TimeProvider,
	events Events,
	metrics interfaces.Metrics,
	logger log.Logger,
) *Sessions {
	return &Sessions{
		bases:   bases,
		ids:     helpers.NilPanic(ids, "registry.sessions.go: ids is required"),
		clock:   helpers.NilPanic(clock, "registry.sessions.go: clock is required"),
		events:  helpers.NilPanic(events, "registry.sessions.go: events is required"),
		metrics: helpers.NilPanic(metrics, "registry.sessions.go: metrics is required"),
		logger:  log.With(helpers.NilPanic(logger, "registry.sessions.go: logger is required"), "component", "sessions"),
		table:   make(map[domain.SessionID]*domain.Session),
	}
}

// Register opens a session for serviceID reachable at host.
//
// Returns: the session with a fresh id and both candidates at their base; bad_parameter when host is nil.
func (s *Sessions) Register(serviceID domain.ServiceID, meta string, host net.IP) (domain.Session, error) {
	if host == nil {
		return domain.Session{}, service.NewBadParameterError("peer host is required", nil)
	}

	session := &domain.Session{
		ID:            domain.SessionID(s.ids.Next()),
		ServiceID:     serviceID,
		Meta:          meta,
		Host:          append(net.IP(nil), host...),
		ServicePort:   s.bases.ServicePort,
		HeartbeatPort: s.bases.HeartbeatPort,
	}

	s.mu.Lock()
	s.table[session.ID] = session
	s.mu.Unlock()

	s.metrics.SessionEvent(interfaces.SessionOpened)
	level.Debug(s.logger).Log("msg", "session opened", "session_id", session.ID, "service_id", serviceID, "host", host)
	return *session, nil
}

// ReportStatus applies the outcome of the last attempt on the candidates of session id.
//
// Both succeeded: the session is closed and emitted through Events.RegisterService; the
// returned session holds the final ports. Otherwise every failed port is stepped by one and the
// session stays open with the returned candidates. A failed port that is already 65535 cannot be
// stepped: the session is closed without a service.
//
// Returns: (session, true) on success; (zero, false) when the session is unknown, which tells the
// caller the registry lost it, when its ports ran out, or when the registry no longer accepts services.
func (s *Sessions) ReportStatus(id domain.SessionID, serviceSucceed, heartbeatSucceed bool) (domain.Session, bool) {
	s.mu.Lock()
	session, ok := s.table[id]
	if !ok {
		s.mu.Unlock()
		s.metrics.SessionEvent(interfaces.SessionUnknown)
		level.Debug(s.logger).Log("msg", "status for unknown session", "session_id", id)
		return domain.Session{}, false
	}

	if !serviceSucceed || !heartbeatSucceed {
		stepped := (serviceSucceed || session.StepServicePort()) && (heartbeatSucceed || session.StepHeartbeatPort())
		if !stepped {
			delete(s.table, id)
			s.mu.Unlock()
			s.metrics.SessionEvent(interfaces.SessionExhausted)
			level.Warn(s.logger).Log("msg", "no port left to try, session closed", "session_id", id)
			return domain.Session{}, false
		}
		next := *session
		s.mu.Unlock()

		s.metrics.SessionEvent(interfaces.SessionStepped)
		return next, true
	}

	delete(s.table, id)
	finished := *session
	s.mu.Unlock()

	if err := s.events.RegisterService(finished.Service(s.clock.Now())); err != nil {
		level.Warn(s.logger).Log("msg", "finished session not admitted", "session_id", id, "err", err)
		return domain.Session{}, false
	}
	s.metrics.SessionEvent(interfaces.SessionFinished)
	level.Info(s.logger).Log(
		"msg", "session finished",
		"session_id", id,
		"service_id", finished.ServiceID,
		"service_port", finished.ServicePort,
		"heartbeat_port", finished.HeartbeatPort,
	)
	return finished, true
}

// Resume hands svc over without negotiation. The claimed ports are not checked against other
// live services.
func (s *Sessions) Resume(svc domain.Service) error {
	if svc.Host == nil {
		return service.NewBadParameterError("peer host is required", nil)
	}
	svc.RegisteredAt = s.clock.Now()
	if err := s.events.ResumeService(svc); err != nil {
		return err
	}
	s.metrics.SessionEvent(interfaces.SessionResumed)
	return nil
}

// Get returns a copy of the open session id.
func (s *Sessions) Get(id domain.SessionID) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.table[id]
	if !ok {
		return domain.Session{}, false
	}
	return *session, true
}

// Len returns the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.table)
}
