package interfaces

// IDGenerator hands out monotonically increasing identifiers.
//
// Used by registry.Sessions to number sessions. Constructed in cmd/registry as registry.NewSequence(0).
//
//go:generate moq -stub -out mock/id_generator.go -pkg mock . IDGenerator
type IDGenerator interface {
	// Next returns the next identifier; every call returns a value strictly greater than the previous one.
	Next() uint64
}
