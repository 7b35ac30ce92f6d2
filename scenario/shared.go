package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"myregistry/domain"
	"myregistry/pb"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// scenarioServiceBase keeps the service ids of concurrent scenarios apart from real services.
const scenarioServiceBase = 900_000

// CreateRegistryClient creates a registry API client.
// Returns the client, a dispose function to close the connection, and an error.
func CreateRegistryClient(registryAddr string) (pb.RegistryClient, func(), error) {
	conn, err := grpc.NewClient(registryAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial registry: %w", err)
	}
	return pb.NewRegistryClient(conn), func() { _ = conn.Close() }, nil
}

type servicesResponse struct {
	Services []domain.Service `json:"services"`
}

// LiveInstances performs GET AdminURL/v1/services/{id}. A 404 (no live instance) is an empty list.
func LiveInstances(ctx context.Context, cfg *Config, serviceID domain.ServiceID) ([]domain.Service, error) {
	reqURL := cfg.AdminURL + "/v1/services/" + strconv.FormatUint(uint64(serviceID), 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return []domain.Service{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("admin returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var out servicesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parse services: %w", err)
	}
	return out.Services, nil
}

// WaitInstances polls the admin API until serviceID has want live instances or ctx ends.
func WaitInstances(ctx context.Context, cfg *Config, serviceID domain.ServiceID, want int) ([]domain.Service, error) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		services, err := LiveInstances(ctx, cfg, serviceID)
		if err == nil && len(services) == want {
			return services, nil
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return nil, fmt.Errorf("waiting for %d instances of %d: %w", want, serviceID, err)
			}
			return nil, fmt.Errorf("waiting for %d instances of %d: have %d: %w", want, serviceID, len(services), ctx.Err())
		case <-ticker.C:
		}
	}
}

// scenarioServiceID returns a service id unlikely to collide with other runs.
func scenarioServiceID(offset uint64) domain.ServiceID {
	return domain.ServiceID(scenarioServiceBase + uint64(time.Now().UnixNano()%1000)*10 + offset)
}
