package interfaces

import "myregistry/domain"

// Executor runs user service logic on a port allocated by the registry.
//
// Implemented by container.FuncExecutor and by the echo executor in cmd/echoservice.
// Called from container.Container while negotiating ports (Run) and on shutdown (Stop).
//
//go:generate moq -stub -out mock/executor.go -pkg mock . Executor
type Executor interface {
	// ServiceID identifies the service kind announced on Register.
	ServiceID() domain.ServiceID

	// Run tries to bind and start the service on port.
	// Returns false when the port cannot be used, so the registry steps to the next candidate.
	// Run must not block once the service is started.
	Run(port uint16) bool

	// Stop shuts the service down. Best effort; it may be called when Run never succeeded.
	Stop()

	// Meta is a free-form description stored on the service record.
	Meta() string
}
