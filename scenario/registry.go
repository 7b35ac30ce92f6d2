// Package scenario holds end-to-end checks run against a deployed registry through its public
// APIs: the gRPC registration API and the admin HTTP API.
package scenario

import (
	"context"
	"sort"
)

// Runner runs a single scenario with the given config. Each scenario creates its own clients.
type Runner func(ctx context.Context, cfg *Config) error

var registry = make(map[string]Runner)

// Register adds a scenario by name. Call from init() in scenario files.
func Register(name string, fn Runner) {
	registry[name] = fn
}

// Names returns the registered scenario names in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run runs the named scenario. Returns UnknownScenarioError when it is not registered.
func Run(name string, ctx context.Context, cfg *Config) error {
	fn, ok := registry[name]
	if !ok {
		return &UnknownScenarioError{Name: name}
	}
	return fn(ctx, cfg)
}
