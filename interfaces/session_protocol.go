package interfaces

import (
	"net"

	"myregistry/domain"
)

// SessionProtocol is the registration state machine served over RPC.
//
// Implemented by registry.Registry. Called from handlers.RegistryServer.
//
//go:generate moq -stub -out mock/session_protocol.go -pkg mock . SessionProtocol
type SessionProtocol interface {
	// Register opens a session for serviceID coming from host and returns it with the base candidate ports.
	// Returns bad_parameter when host is missing and registry_stopped after shutdown.
	Register(serviceID domain.ServiceID, meta string, host net.IP) (domain.Session, error)

	// ReportStatus applies the outcome of the last port attempt.
	// Returns (session, true) with the next candidates, or with the final ports when both succeeded
	// (the session is then closed). Returns (zero, false) for an unknown session.
	ReportStatus(id domain.SessionID, serviceSucceed, heartbeatSucceed bool) (domain.Session, bool)

	// Resume admits an already running service without negotiating ports.
	// Returns registry_stopped after shutdown.
	Resume(svc domain.Service) error

	// Deregister drops the live service with serviceID on host:servicePort.
	// Returns entity_not_found when there is no such service.
	Deregister(serviceID domain.ServiceID, host net.IP, servicePort uint16) error
}
