package interfaces

import "myregistry/domain"

// ServiceListener observes admission and loss of services.
//
// Implemented by registry.LogListener and redis.ExportListener;
// combined with registry.Listeners. Called from the registry loop goroutine only, so
// implementations must not call back into the registry synchronously and must not call
// Registry.Stop.
//
//go:generate moq -stub -out mock/service_listener.go -pkg mock . ServiceListener
type ServiceListener interface {
	// ServiceAvailable is called once a service finished registration or resumed and is under heartbeat.
	ServiceAvailable(svc domain.Service)

	// ServiceDropped is called when a live service failed its heartbeat (reason is the probe error)
	// or was deregistered (reason is nil).
	ServiceDropped(svc domain.Service, reason error)
}
