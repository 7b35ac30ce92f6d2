// Package container runs a service under the registry: it negotiates the service and heartbeat
// ports, answers the registry heartbeat, and resumes the registration when the registry goes quiet.
package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"myregistry/helpers"
	"myregistry/heartbeat"
	"myregistry/interfaces"
	"myregistry/pb"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var (
	// ErrRegistryLost means the registry no longer knows the registration session, usually
	// because it restarted during the negotiation.
	ErrRegistryLost = errors.New("registry lost the registration session")
	// ErrAlreadyStarted is returned by Start on a running container.
	ErrAlreadyStarted = errors.New("container already started")
	// ErrContainerStopped is returned by Start after Stop.
	ErrContainerStopped = errors.New("container stopped")
)

const (
	DefaultReconnectDelay = time.Second
	DefaultRPCTimeout     = 3 * time.Second
)

// Config of a Container.
type Config struct {
	// RegistryAddr is the host:port of the registry gRPC API.
	RegistryAddr string
	// HeartbeatInterval is the silence after which the registry is considered lost. It must be
	// larger than the registry probe interval plus the probe round trip, otherwise a healthy
	// service resumes on most cycles; two to three probe intervals is a good value.
	HeartbeatInterval time.Duration
	// ReconnectDelay is the pause after a failed resume.
	ReconnectDelay time.Duration
	// RPCTimeout bounds every registry call.
	RPCTimeout time.Duration
}

type heartbeatServer = heartbeat.Server[*pb.HeartbeatRequest, *pb.HeartbeatResponse]

// Container drives an Executor through the registration protocol.
//
// Start registers, then binds the executor and the heartbeat responder on the candidate ports
// until both succeed. Each heartbeat answered signals the watchdog; when the registry stays
// silent for a HeartbeatInterval the watchdog calls Resume with the ports in use, and retries
// after ReconnectDelay while it fails.
type Container struct {
	config    Config
	executor  interfaces.Executor
	conn      *grpc.ClientConn
	client    pb.RegistryClient
	heartbeat *heartbeatServer
	alive     chan struct{}
	logger    log.Logger

	mu            sync.Mutex
	started       bool
	active        bool
	stopped       bool
	servicePort   uint16
	heartbeatPort uint16

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a container for executor. The registry connection is established lazily.
//
// Parameters: config — registry address and timings, zero ReconnectDelay and RPCTimeout use the
// defaults; executor — the service to run; logger — go-kit logger.
//
// Returns: (*Container, nil); an error for a non-positive HeartbeatInterval or an unusable
// registry address. Panics on an empty RegistryAddr or nil collaborators.
func New(config Config, executor interfaces.Executor, logger log.Logger) (*Container, error) {
	helpers.StrPanic(config.RegistryAddr, "container.container.go: registry address is required")
	executor = helpers.NilPanic(executor, "container.container.go: executor is required")
	logger = log.With(helpers.NilPanic(logger, "container.container.go: logger is required"), "component", "container")

	if config.HeartbeatInterval <= 0 {
		return nil, fmt.Errorf("heartbeat interval must be positive, got %s", config.HeartbeatInterval)
	}
	if config.ReconnectDelay <= 0 {
		config.ReconnectDelay = DefaultReconnectDelay
	}
	if config.RPCTimeout <= 0 {
		config.RPCTimeout = DefaultRPCTimeout
	}

	conn, err := grpc.NewClient(config.RegistryAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("create registry client for %s: %w", config.RegistryAddr, err)
	}

	c := &Container{
		config:   config,
		executor: executor,
		conn:     conn,
		client:   pb.NewRegistryClient(conn),
		alive:    make(chan struct{}, 1),
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	c.heartbeat = heartbeat.NewServer[*pb.HeartbeatRequest, *pb.HeartbeatResponse](
		"container_heartbeat",
		heartbeat.HandlerFunc[*pb.HeartbeatRequest, *pb.HeartbeatResponse](c.answerHeartbeat),
		logger,
	)
	return c, nil
}

// Start registers the executor and returns once the service and the heartbeat responder run on
// the ports the registry agreed to. A failed Start leaves nothing running and may be retried.
//
// Returns: nil when active; the RPC error of Register or ReportStatus; ErrRegistryLost when the
// registry dropped the session; ErrAlreadyStarted; ErrContainerStopped.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.stopped:
		c.mu.Unlock()
		return ErrContainerStopped
	case c.started:
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.mu.Unlock()

	servicePort, heartbeatPort, err := c.registerAndRun(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil && c.stopped {
		c.executor.Stop()
		c.heartbeat.Stop()
		err = ErrContainerStopped
	}
	if err != nil {
		c.started = false
		return err
	}

	c.active = true
	c.servicePort = servicePort
	c.heartbeatPort = heartbeatPort
	go c.watchdog(servicePort, heartbeatPort)

	level.Info(c.logger).Log(
		"msg", "service registered",
		"service_id", c.executor.ServiceID(),
		"service_port", servicePort,
		"heartbeat_port", heartbeatPort,
	)
	return nil
}

// Ports returns the service and heartbeat ports of an active container, zeros otherwise.
func (c *Container) Ports() (servicePort, heartbeatPort uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.servicePort, c.heartbeatPort
}

// Stop ends the watchdog, deregisters best effort, and stops the executor and the heartbeat
// responder. Safe to call more than once.
func (c *Container) Stop() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.stopped = true
		active := c.active
		servicePort := c.servicePort
		c.mu.Unlock()

		if active {
			close(c.stop)
			<-c.done
			c.deregister(servicePort)
			c.executor.Stop()
			c.heartbeat.Stop()
		}
		if err := c.conn.Close(); err != nil {
			level.Debug(c.logger).Log("msg", "close registry connection", "err", err)
		}
		level.Info(c.logger).Log("msg", "container stopped", "service_id", c.executor.ServiceID())
	})
}

func (c *Container) registerAndRun(ctx context.Context) (uint16, uint16, error) {
	serviceID := c.executor.ServiceID()

	rctx, cancel := context.WithTimeout(ctx, c.config.RPCTimeout)
	rsp, err := c.client.Register(rctx, &pb.RegisterRequest{ServiceId: uint64(serviceID), Meta: c.executor.Meta()})
	cancel()
	if err != nil {
		return 0, 0, fmt.Errorf("register service %d: %w", serviceID, err)
	}

	var (
		servicePort   = uint16(rsp.ServicePort)
		heartbeatPort = uint16(rsp.HeartbeatPort)
		serviceOK     bool
		heartbeatOK   bool
	)
	for !serviceOK || !heartbeatOK {
		if !serviceOK {
			serviceOK = c.executor.Run(servicePort)
		}
		if !heartbeatOK {
			if err := c.heartbeat.Start(heartbeatPort); err != nil {
				level.Debug(c.logger).Log("msg", "heartbeat port unavailable", "port", heartbeatPort, "err", err)
			} else {
				heartbeatOK = true
			}
		}

		status, err := c.reportStatus(ctx, rsp.SessionId, serviceOK, heartbeatOK)
		if err == nil && !status.Succeed {
			err = ErrRegistryLost
		}
		if err != nil {
			if serviceOK {
				c.executor.Stop()
			}
			if heartbeatOK {
				c.heartbeat.Stop()
			}
			return 0, 0, err
		}
		if !serviceOK {
			servicePort = uint16(status.ServicePort)
		}
		if !heartbeatOK {
			heartbeatPort = uint16(status.HeartbeatPort)
		}
	}
	return servicePort, heartbeatPort, nil
}

func (c *Container) reportStatus(ctx context.Context, sessionID uint64, serviceOK, heartbeatOK bool) (*pb.StatusResponse, error) {
	rctx, cancel := context.WithTimeout(ctx, c.config.RPCTimeout)
	defer cancel()
	status, err := c.client.ReportStatus(rctx, &pb.StatusRequest{
		SessionId:        sessionID,
		ServiceSucceed:   serviceOK,
		HeartbeatSucceed: heartbeatOK,
	})
	if err != nil {
		return nil, fmt.Errorf("report status of session %d: %w", sessionID, err)
	}
	return status, nil
}

// answerHeartbeat runs on the heartbeat server for every registry probe.
func (c *Container) answerHeartbeat(*pb.HeartbeatRequest) *pb.HeartbeatResponse {
	select {
	case c.alive <- struct{}{}:
	default:
	}
	return pb.NewHeartbeatResponse()
}

func (c *Container) watchdog(servicePort, heartbeatPort uint16) {
	defer close(c.done)
	for {
		select {
		case <-c.stop:
			return
		case <-c.alive:
			continue
		case <-time.After(c.config.HeartbeatInterval):
		}

		level.Warn(c.logger).Log("msg", "no heartbeat from registry, resuming", "silence", c.config.HeartbeatInterval)
		if err := c.resume(servicePort, heartbeatPort); err != nil {
			level.Warn(c.logger).Log("msg", "resume failed", "err", err, "retry_in", c.config.ReconnectDelay)
			select {
			case <-c.stop:
				return
			case <-time.After(c.config.ReconnectDelay):
			}
			continue
		}
		level.Info(c.logger).Log("msg", "resume succeeded")
	}
}

func (c *Container) resume(servicePort, heartbeatPort uint16) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.RPCTimeout)
	defer cancel()
	rsp, err := c.client.Resume(ctx, &pb.ResumeRequest{
		ServiceId:     uint64(c.executor.ServiceID()),
		ServicePort:   uint32(servicePort),
		HeartbeatPort: uint32(heartbeatPort),
		Meta:          c.executor.Meta(),
	})
	if err != nil {
		return err
	}
	if !rsp.Succeed {
		return fmt.Errorf("resume rejected: %s", rsp.Msg)
	}
	return nil
}

func (c *Container) deregister(servicePort uint16) {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.RPCTimeout)
	defer cancel()
	_, err := c.client.Deregister(ctx, &pb.DeregisterRequest{
		ServiceId:   uint64(c.executor.ServiceID()),
		ServicePort: uint32(servicePort),
	})
	if err != nil {
		level.Debug(c.logger).Log("msg", "deregister failed", "err", err)
	}
}
