package interfaces

import "time"

// TimeProvider supplies the current time for service registration timestamps.
// Injected so tests can use a fixed clock instead of time.Now().
//
//go:generate moq -stub -out mock/time_provider.go -pkg mock . TimeProvider
type TimeProvider interface {
	Now() time.Time
}

// TimeProviderFunc adapts a plain function to TimeProvider.
type TimeProviderFunc func() time.Time

func (f TimeProviderFunc) Now() time.Time { return f() }
