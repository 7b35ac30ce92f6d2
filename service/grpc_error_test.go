package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRegistryErrorToGRPC(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    codes.Code
		message string
	}{
		{"bad parameter", NewBadParameterError("service_id required", nil), codes.InvalidArgument, "service_id required"},
		{"not found", NewEntityNotFoundError("no such service", nil), codes.NotFound, "no such service"},
		{"stopped", NewRegistryStoppedError("shutting down", nil), codes.Unavailable, "shutting down"},
		{"internal", NewInternalServerError("boom", nil), codes.Internal, "boom"},
		{"unknown code", RegistryError{Code: "weird", Message: "w"}, codes.Unknown, "w"},
		{"plain error", errors.New("secret detail"), codes.Unknown, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := status.FromError(RegistryErrorToGRPC(tt.err))
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.message, st.Message())
		})
	}
}

func TestRegistryErrorToGRPC_Nil(t *testing.T) {
	assert.NoError(t, RegistryErrorToGRPC(nil))
}

func TestRegistryErrorToGRPCInterceptor(t *testing.T) {
	interceptor := RegistryErrorToGRPCInterceptor(log.NewNopLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/registry.Registry/Resume"}

	resp, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	_, err = interceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, NewBadParameterError("missing service_id", nil)
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
