package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myregistry/adapters/redis"
	"myregistry/handlers"
	"myregistry/interfaces"
	"myregistry/metrics"
	"myregistry/pb"
	"myregistry/registry"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	level.Info(logger).Log("msg", "Starting registry")

	config, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}

	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"service_port_grpc", config.GRPCPort,
		"service_port_http", config.HTTPPort,
		"redis_addr", config.RedisAddr,
		"service_port_base", config.ServicePortBase,
		"heartbeat_port_base", config.HeartbeatPortBase,
		"heartbeat_interval", config.HeartbeatInterval,
		"heartbeat_timeout", config.HeartbeatTimeout,
	)

	promMetrics := metrics.NewPrometheus(prometheus.DefaultRegisterer, "registry")

	listeners := registry.Listeners{registry.NewLogListener(logger)}
	if config.RedisAddr != "" {
		redisClient, err := redis.NewRedisUniversalClient(config.RedisAddr)
		if err != nil {
			level.Error(logger).Log("msg", "Failed to create Redis client", "err", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		export := redis.NewExportListener(redis.NewServiceCache(redisClient), config.ExportTTLMs, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if _, err := export.Purge(ctx); err != nil {
			level.Warn(logger).Log("msg", "Failed to purge stale exported services", "err", err)
		}
		cancel()
		listeners = append(listeners, export)
	}

	reg, err := registry.NewRegistry(
		registry.Config{
			ServicePortBase:   config.ServicePortBase,
			HeartbeatPortBase: config.HeartbeatPortBase,
			HeartbeatInterval: config.HeartbeatInterval,
			HeartbeatTimeout:  config.HeartbeatTimeout,
		},
		registry.NewSequence(0),
		interfaces.TimeProviderFunc(func() time.Time { return time.Now().UTC() }),
		listeners,
		promMetrics,
		logger,
	)
	if err != nil {
		level.Error(logger).Log("msg", "Failed to create registry", "err", err)
		os.Exit(1)
	}

	grpcServer := newGRPCServer(reg, logger)

	var httpServer *echo.Echo
	{
		httpServer = echo.New()
		httpServer.HideBanner = true
		httpServer.HidePort = true
		handlers.RegisterAdminHandlers(httpServer, handlers.NewAdminServer(reg, logger), promhttp.Handler())
		service.RegisterErrorHandler(httpServer, logger)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", config.GRPCPort))
	if err != nil {
		level.Error(logger).Log("msg", "Failed to listen", "err", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		level.Info(logger).Log("msg", "Starting gRPC server", "addr", lis.Addr())
		if err := grpcServer.Serve(lis); err != nil {
			level.Error(logger).Log("msg", "gRPC server error", "err", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", config.HTTPPort)
		level.Info(logger).Log("msg", "Starting admin HTTP server", "addr", addr)
		if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			level.Error(logger).Log("msg", "Admin HTTP server error", "err", err)
		}
	}()

	<-quit
	level.Info(logger).Log("msg", "Shutting down...")

	grpcServer.GracefulStop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		level.Error(logger).Log("msg", "Admin HTTP server shutdown error", "err", err)
	}
	reg.Stop()
	level.Info(logger).Log("msg", "Server stopped")
}

// newGRPCServer builds the gRPC server exposing the registration protocol with error code mapping,
// the standard health service and reflection.
func newGRPCServer(protocol interfaces.SessionProtocol, logger log.Logger) *grpc.Server {
	errorCodeOption := grpc.ChainUnaryInterceptor(service.RegistryErrorToGRPCInterceptor(logger))
	grpcServer := grpc.NewServer(errorCodeOption)
	pb.RegisterRegistryServer(grpcServer, handlers.NewGrpcServer(protocol, logger))

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)
	return grpcServer
}
