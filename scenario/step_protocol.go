package scenario

import (
	"context"
	"fmt"
	"time"

	"myregistry/pb"
)

const scenarioStepProtocol = "step_protocol"

func init() {
	Register(scenarioStepProtocol, runStepProtocol)
}

// runStepProtocol drives a session by hand: each failed port must move by exactly one, a
// succeeded port must stay, and the session must be closed by the report of two successes.
func runStepProtocol(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, dispose, err := CreateRegistryClient(cfg.RegistryAddr)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer dispose()

	// 1. Register
	reg, err := client.Register(ctx, &pb.RegisterRequest{ServiceId: uint64(scenarioServiceID(2))})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	servicePort, heartbeatPort := reg.ServicePort, reg.HeartbeatPort

	// 2. Step each dimension, then both
	steps := []struct {
		serviceOK, heartbeatOK bool
	}{
		{serviceOK: false, heartbeatOK: true},
		{serviceOK: true, heartbeatOK: false},
		{serviceOK: false, heartbeatOK: false},
	}
	for i, step := range steps {
		st, err := client.ReportStatus(ctx, &pb.StatusRequest{
			SessionId:        reg.SessionId,
			ServiceSucceed:   step.serviceOK,
			HeartbeatSucceed: step.heartbeatOK,
		})
		if err != nil {
			return fmt.Errorf("report status (step %d): %w", i, err)
		}
		if !st.Succeed {
			return fmt.Errorf("report status (step %d): session lost", i)
		}
		if st.SessionId != reg.SessionId {
			return fmt.Errorf("report status (step %d): session id changed to %d", i, st.SessionId)
		}
		if !step.serviceOK {
			servicePort++
		}
		if !step.heartbeatOK {
			heartbeatPort++
		}
		if st.ServicePort != servicePort || st.HeartbeatPort != heartbeatPort {
			return fmt.Errorf("report status (step %d): got ports %d/%d, want %d/%d",
				i, st.ServicePort, st.HeartbeatPort, servicePort, heartbeatPort)
		}
	}

	// 3. Finish
	st, err := client.ReportStatus(ctx, &pb.StatusRequest{SessionId: reg.SessionId, ServiceSucceed: true, HeartbeatSucceed: true})
	if err != nil {
		return fmt.Errorf("finish: %w", err)
	}
	if !st.Succeed || st.ServicePort != servicePort || st.HeartbeatPort != heartbeatPort {
		return fmt.Errorf("finish: got %+v, want ports %d/%d", st, servicePort, heartbeatPort)
	}

	// 4. The session is closed
	st, err = client.ReportStatus(ctx, &pb.StatusRequest{SessionId: reg.SessionId, ServiceSucceed: true, HeartbeatSucceed: true})
	if err != nil {
		return fmt.Errorf("report on closed session: %w", err)
	}
	if st.Succeed {
		return fmt.Errorf("report on closed session succeeded")
	}
	return nil
}
