package scenario

import (
	"context"
	"fmt"
	"net"
	"time"

	"myregistry/heartbeat"
	"myregistry/pb"

	"github.com/go-kit/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const scenarioResume = "resume"

func init() {
	Register(scenarioResume, runResume)
}

// runResume re-admits a service without negotiation, twice, expects a single live instance, and
// deregisters it.
func runResume(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, dispose, err := CreateRegistryClient(cfg.RegistryAddr)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer dispose()

	hb := heartbeat.NewServer[*pb.HeartbeatRequest, *pb.HeartbeatResponse](
		scenarioResume,
		heartbeat.HandlerFunc[*pb.HeartbeatRequest, *pb.HeartbeatResponse](func(*pb.HeartbeatRequest) *pb.HeartbeatResponse {
			return pb.NewHeartbeatResponse()
		}),
		log.NewNopLogger(),
	)
	if err := hb.Start(0); err != nil {
		return fmt.Errorf("start heartbeat: %w", err)
	}
	defer hb.Stop()

	lis, err := net.Listen("tcp", ":0")
	if err != nil {
		return fmt.Errorf("bind service port: %w", err)
	}
	defer lis.Close()
	servicePort := uint32(lis.Addr().(*net.TCPAddr).Port)

	// 1. Resume twice
	serviceID := scenarioServiceID(4)
	req := &pb.ResumeRequest{
		ServiceId:     uint64(serviceID),
		ServicePort:   servicePort,
		HeartbeatPort: uint32(hb.Port()),
		Meta:          scenarioResume,
	}
	for i := 0; i < 2; i++ {
		rsp, err := client.Resume(ctx, req)
		if err != nil {
			return fmt.Errorf("resume (%d): %w", i, err)
		}
		if !rsp.Succeed {
			return fmt.Errorf("resume (%d) rejected: %s", i, rsp.Msg)
		}
	}

	// 2. One live instance
	if _, err := WaitInstances(ctx, cfg, serviceID, 1); err != nil {
		return err
	}
	time.Sleep(2 * cfg.HeartbeatInterval)
	if services, err := LiveInstances(ctx, cfg, serviceID); err != nil || len(services) != 1 {
		return fmt.Errorf("expected one live instance after repeated resume: %d instances, err %v", len(services), err)
	}

	// 3. Deregister, then again
	if _, err := client.Deregister(ctx, &pb.DeregisterRequest{ServiceId: uint64(serviceID), ServicePort: servicePort}); err != nil {
		return fmt.Errorf("deregister: %w", err)
	}
	if _, err := WaitInstances(ctx, cfg, serviceID, 0); err != nil {
		return fmt.Errorf("after deregister: %w", err)
	}
	_, err = client.Deregister(ctx, &pb.DeregisterRequest{ServiceId: uint64(serviceID), ServicePort: servicePort})
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("second deregister: want NotFound, got %v", err)
	}
	return nil
}
