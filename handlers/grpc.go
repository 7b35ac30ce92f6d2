// Package handlers binds the registry to its transports: the gRPC registration API used by containers
// and the read-only admin HTTP API.
package handlers

import (
	"context"
	"fmt"
	"math"
	"net"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/pb"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc/peer"
)

// resumeSucceed is the message of a successful Resume.
const resumeSucceed = "succeed"

// grpcServer implements pb.RegistryServer on top of the session protocol. The host of a
// registering service is the address it called from.
type grpcServer struct {
	pb.UnimplementedRegistryServer
	protocol interfaces.SessionProtocol
	logger   log.Logger
}

// NewGrpcServer creates the registry API server.
func NewGrpcServer(protocol interfaces.SessionProtocol, logger log.Logger) *grpcServer {
	return &grpcServer{
		protocol: helpers.NilPanic(protocol, "handlers.grpc.go: protocol is required"),
		logger:   log.With(helpers.NilPanic(logger, "handlers.grpc.go: logger is required"), "component", "grpc_registry"),
	}
}

// Register opens a session for the calling host and returns the first candidate ports.
func (s *grpcServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	if req == nil {
		return nil, service.NewBadParameterError("request is nil", nil)
	}
	host, err := peerHost(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.protocol.Register(domain.ServiceID(req.ServiceId), req.Meta, host)
	if err != nil {
		return nil, err
	}
	return &pb.RegisterResponse{
		HeartbeatPort: uint32(session.HeartbeatPort),
		ServicePort:   uint32(session.ServicePort),
		SessionId:     uint64(session.ID),
	}, nil
}

// ReportStatus answers succeed=false for a session the registry does not know.
func (s *grpcServer) ReportStatus(_ context.Context, req *pb.StatusRequest) (*pb.StatusResponse, error) {
	if req == nil {
		return nil, service.NewBadParameterError("request is nil", nil)
	}

	session, ok := s.protocol.ReportStatus(domain.SessionID(req.SessionId), req.ServiceSucceed, req.HeartbeatSucceed)
	if !ok {
		level.Debug(s.logger).Log("msg", "report status rejected", "session_id", req.SessionId)
		return &pb.StatusResponse{Succeed: false}, nil
	}
	return &pb.StatusResponse{
		Succeed:       true,
		HeartbeatPort: uint32(session.HeartbeatPort),
		ServicePort:   uint32(session.ServicePort),
		SessionId:     uint64(session.ID),
	}, nil
}

// Resume re-admits a service on the ports it reports, without a negotiation.
func (s *grpcServer) Resume(ctx context.Context, req *pb.ResumeRequest) (*pb.ResumeResponse, error) {
	if req == nil {
		return nil, service.NewBadParameterError("request is nil", nil)
	}
	servicePort, err := toPort("service_port", req.ServicePort)
	if err != nil {
		return nil, err
	}
	heartbeatPort, err := toPort("heartbeat_port", req.HeartbeatPort)
	if err != nil {
		return nil, err
	}
	host, err := peerHost(ctx)
	if err != nil {
		return nil, err
	}

	err = s.protocol.Resume(domain.Service{
		ID:            domain.ServiceID(req.ServiceId),
		Meta:          req.Meta,
		Host:          host,
		ServicePort:   servicePort,
		HeartbeatPort: heartbeatPort,
	})
	if err != nil {
		return nil, err
	}
	return &pb.ResumeResponse{Succeed: true, Msg: resumeSucceed}, nil
}

// Deregister removes the live service of the calling host.
func (s *grpcServer) Deregister(ctx context.Context, req *pb.DeregisterRequest) (*pb.DeregisterResponse, error) {
	if req == nil {
		return nil, service.NewBadParameterError("request is nil", nil)
	}
	servicePort, err := toPort("service_port", req.ServicePort)
	if err != nil {
		return nil, err
	}
	host, err := peerHost(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.protocol.Deregister(domain.ServiceID(req.ServiceId), host, servicePort); err != nil {
		return nil, err
	}
	return &pb.DeregisterResponse{Succeed: true}, nil
}

// peerHost returns the IP (v4 or v6) of the caller.
func peerHost(ctx context.Context) (net.IP, error) {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return nil, service.NewBadParameterError("peer address is unknown", nil)
	}
	if addr, ok := p.Addr.(*net.TCPAddr); ok && addr.IP != nil {
		return addr.IP, nil
	}

	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return nil, service.NewBadParameterError("peer address is not host:port", err)
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return nil, service.NewBadParameterError(fmt.Sprintf("peer host %q is not an IP", host), nil)
	}
	return ip, nil
}

func toPort(field string, v uint32) (uint16, error) {
	if v == 0 || v > math.MaxUint16 {
		return 0, service.NewBadParameterError(fmt.Sprintf("%s %d is out of range", field, v), nil)
	}
	return uint16(v), nil
}
