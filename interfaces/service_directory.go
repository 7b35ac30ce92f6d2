package interfaces

import "myregistry/domain"

// ServiceDirectory is the read-only view of live services.
//
// Implemented by registry.Registry. Called from handlers.AdminHandler.
//
//go:generate moq -stub -out mock/service_directory.go -pkg mock . ServiceDirectory
type ServiceDirectory interface {
	// Services returns every live service ordered by service id, then service address.
	Services() []domain.Service

	// Lookup returns the live instances of serviceID; empty when there are none.
	Lookup(serviceID domain.ServiceID) []domain.Service
}
