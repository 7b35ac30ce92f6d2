package domain

import (
	"math"
	"net"
	"strconv"
	"time"
)

// ServiceID identifies a kind of service. Many instances may share one ServiceID.
type ServiceID uint64

// SessionID identifies one in-progress port negotiation.
type SessionID uint64

// Session is the registry-side record of a port negotiation for one registering instance.
// Ports hold the current candidates; a failed dimension is stepped by one per report.
type Session struct {
	ID            SessionID
	ServiceID     ServiceID
	Meta          string
	Host          net.IP
	ServicePort   uint16
	HeartbeatPort uint16
}

// StepServicePort moves the service port candidate to the next port. Returns false and keeps the
// candidate when it is already the last port.
func (s *Session) StepServicePort() bool {
	return step(&s.ServicePort)
}

// StepHeartbeatPort moves the heartbeat port candidate to the next port. Returns false and keeps
// the candidate when it is already the last port.
func (s *Session) StepHeartbeatPort() bool {
	return step(&s.HeartbeatPort)
}

func step(port *uint16) bool {
	if *port == math.MaxUint16 {
		return false
	}
	*port++
	return true
}

// Service converts a finished session into the long-lived record.
func (s Session) Service(registeredAt time.Time) Service {
	return Service{
		ID:            s.ServiceID,
		Meta:          s.Meta,
		Host:          s.Host,
		ServicePort:   s.ServicePort,
		HeartbeatPort: s.HeartbeatPort,
		RegisteredAt:  registeredAt,
	}
}

// Service is a successfully registered instance that is monitored by heartbeats.
type Service struct {
	ID            ServiceID `json:"service_id"`
	Meta          string    `json:"meta,omitempty"`
	Host          net.IP    `json:"host"`
	ServicePort   uint16    `json:"service_port"`
	HeartbeatPort uint16    `json:"heartbeat_port"`
	RegisteredAt  time.Time `json:"registered_at"`
}

// ServiceAddr returns host:service_port.
func (s Service) ServiceAddr() string {
	return net.JoinHostPort(s.Host.String(), strconv.Itoa(int(s.ServicePort)))
}

// HeartbeatAddr returns host:heartbeat_port.
func (s Service) HeartbeatAddr() string {
	return net.JoinHostPort(s.Host.String(), strconv.Itoa(int(s.HeartbeatPort)))
}
