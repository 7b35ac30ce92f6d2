package scenario

import (
	"context"
	"fmt"
	"time"

	"myregistry/heartbeat"
	"myregistry/pb"

	"github.com/go-kit/log"
)

const scenarioHeartbeatLoss = "heartbeat_loss"

func init() {
	Register(scenarioHeartbeatLoss, runHeartbeatLoss)
}

// runHeartbeatLoss registers with a heartbeat responder, then silences it and expects the registry
// to drop the service.
func runHeartbeatLoss(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, dispose, err := CreateRegistryClient(cfg.RegistryAddr)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer dispose()

	hb := heartbeat.NewServer[*pb.HeartbeatRequest, *pb.HeartbeatResponse](
		scenarioHeartbeatLoss,
		heartbeat.HandlerFunc[*pb.HeartbeatRequest, *pb.HeartbeatResponse](func(*pb.HeartbeatRequest) *pb.HeartbeatResponse {
			return pb.NewHeartbeatResponse()
		}),
		log.NewNopLogger(),
	)
	defer hb.Stop()

	// 1. Negotiate the heartbeat port, the service port is taken as offered
	serviceID := scenarioServiceID(3)
	reg, err := client.Register(ctx, &pb.RegisterRequest{ServiceId: uint64(serviceID)})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	heartbeatPort := reg.HeartbeatPort
	for {
		bound := hb.Start(uint16(heartbeatPort)) == nil
		st, err := client.ReportStatus(ctx, &pb.StatusRequest{SessionId: reg.SessionId, ServiceSucceed: true, HeartbeatSucceed: bound})
		if err != nil {
			return fmt.Errorf("report status: %w", err)
		}
		if !st.Succeed {
			return fmt.Errorf("report status: session lost")
		}
		if bound {
			break
		}
		heartbeatPort = st.HeartbeatPort
	}

	// 2. Live while answering
	if _, err := WaitInstances(ctx, cfg, serviceID, 1); err != nil {
		return err
	}
	time.Sleep(3 * cfg.HeartbeatInterval)
	if services, err := LiveInstances(ctx, cfg, serviceID); err != nil || len(services) != 1 {
		return fmt.Errorf("service not kept live while answering heartbeats: %d instances, err %v", len(services), err)
	}

	// 3. Dropped once silent
	hb.Stop()
	if _, err := WaitInstances(ctx, cfg, serviceID, 0); err != nil {
		return fmt.Errorf("after heartbeat stop: %w", err)
	}
	return nil
}
