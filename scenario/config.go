package scenario

import "time"

// Config holds the addresses of the registry under test.
type Config struct {
	// RegistryAddr is the host:port of the gRPC registration API.
	RegistryAddr string
	// AdminURL is the base URL of the admin HTTP API, without a trailing slash.
	AdminURL string
	// HeartbeatInterval is the probe interval the registry runs with; scenarios wait multiples of it.
	HeartbeatInterval time.Duration
}
