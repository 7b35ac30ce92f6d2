package scenario

import (
	"context"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"myregistry/handlers"
	"myregistry/interfaces"
	"myregistry/metrics"
	"myregistry/pb"
	"myregistry/registry"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

const testInterval = 50 * time.Millisecond

func freePort(t *testing.T) uint16 {
	t.Helper()
	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := uint16(lis.Addr().(*net.TCPAddr).Port)
	require.NoError(t, lis.Close())
	return port
}

// startRegistry runs a registry with its gRPC and admin APIs in process.
func startRegistry(t *testing.T) *Config {
	t.Helper()
	reg, err := registry.NewRegistry(
		registry.Config{
			ServicePortBase:   freePort(t),
			HeartbeatPortBase: freePort(t),
			HeartbeatInterval: testInterval,
			HeartbeatTimeout:  200 * time.Millisecond,
		},
		registry.NewSequence(0),
		interfaces.TimeProviderFunc(time.Now),
		registry.NewLogListener(log.NewNopLogger()),
		metrics.NewNop(),
		log.NewNopLogger(),
	)
	require.NoError(t, err)
	t.Cleanup(reg.Stop)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(service.RegistryErrorToGRPCInterceptor(log.NewNopLogger())))
	pb.RegisterRegistryServer(grpcServer, handlers.NewGrpcServer(reg, log.NewNopLogger()))
	go func() { _ = grpcServer.Serve(lis) }()
	t.Cleanup(grpcServer.Stop)

	e := echo.New()
	handlers.RegisterAdminHandlers(e, handlers.NewAdminServer(reg, log.NewNopLogger()), nil)
	service.RegisterErrorHandler(e, log.NewNopLogger())
	admin := httptest.NewServer(e)
	t.Cleanup(admin.Close)

	return &Config{
		RegistryAddr:      lis.Addr().String(),
		AdminURL:          admin.URL,
		HeartbeatInterval: testInterval,
	}
}

func TestScenarios(t *testing.T) {
	cfg := startRegistry(t)
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Run(name, context.Background(), cfg))
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"container_lifecycle", "heartbeat_loss", "resume", "step_protocol"}, Names())
}

func TestRun_Unknown(t *testing.T) {
	err := Run("nope", context.Background(), &Config{})
	var unknown *UnknownScenarioError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "unknown scenario: nope", err.Error())
}
