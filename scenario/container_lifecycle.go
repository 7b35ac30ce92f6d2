package scenario

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"myregistry/container"

	"github.com/go-kit/log"
)

const scenarioContainerLifecycle = "container_lifecycle"

func init() {
	Register(scenarioContainerLifecycle, runContainerLifecycle)
}

// runContainerLifecycle registers a TCP listener through a container, checks the admin API lists
// it on the negotiated ports, then stops the container and expects the service to be gone.
func runContainerLifecycle(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var (
		mu  sync.Mutex
		lis net.Listener
	)
	serviceID := scenarioServiceID(1)
	executor := container.NewFuncExecutor(serviceID, func(port uint16) bool {
		l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			return false
		}
		mu.Lock()
		lis = l
		mu.Unlock()
		return true
	}).WithStop(func() {
		mu.Lock()
		defer mu.Unlock()
		if lis != nil {
			_ = lis.Close()
			lis = nil
		}
	}).WithMeta(scenarioContainerLifecycle)

	c, err := container.New(container.Config{
		RegistryAddr:      cfg.RegistryAddr,
		HeartbeatInterval: 5 * cfg.HeartbeatInterval,
	}, executor, log.NewNopLogger())
	if err != nil {
		return fmt.Errorf("create container: %w", err)
	}
	defer c.Stop()

	// 1. Register and negotiate
	if err := c.Start(ctx); err != nil {
		return fmt.Errorf("start container: %w", err)
	}
	servicePort, heartbeatPort := c.Ports()

	// 2. The registry lists exactly this instance
	services, err := WaitInstances(ctx, cfg, serviceID, 1)
	if err != nil {
		return err
	}
	if services[0].ServicePort != servicePort || services[0].HeartbeatPort != heartbeatPort {
		return fmt.Errorf("listed ports %d/%d, container runs on %d/%d",
			services[0].ServicePort, services[0].HeartbeatPort, servicePort, heartbeatPort)
	}
	if services[0].Meta != scenarioContainerLifecycle {
		return fmt.Errorf("listed meta %q", services[0].Meta)
	}

	// 3. Stop deregisters
	c.Stop()
	if _, err := WaitInstances(ctx, cfg, serviceID, 0); err != nil {
		return fmt.Errorf("after stop: %w", err)
	}
	return nil
}
