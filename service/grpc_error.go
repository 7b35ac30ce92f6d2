package service

import (
	"context"
	"errors"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// registryErrorCodeToGRPCCode maps RegistryError codes to gRPC status codes.
func registryErrorCodeToGRPCCode(code string) codes.Code {
	switch code {
	case ErrBadParameter:
		return codes.InvalidArgument
	case ErrEntityNotFound:
		return codes.NotFound
	case ErrRegistryStopped:
		return codes.Unavailable
	case ErrInternalServerError:
		return codes.Internal
	default:
		return codes.Unknown
	}
}

// RegistryErrorToGRPC converts an error to a gRPC status error. RegistryError is mapped to the
// corresponding gRPC code and message; other errors become codes.Unknown with "internal error".
func RegistryErrorToGRPC(err error) error {
	if err == nil {
		return nil
	}
	var regErr RegistryError
	if errors.As(err, &regErr) {
		return status.Error(registryErrorCodeToGRPCCode(regErr.Code), regErr.Message)
	}
	return status.Error(codes.Unknown, "internal error")
}

// RegistryErrorToGRPCInterceptor returns a unary server interceptor that converts handler
// errors to gRPC status errors and logs all errors for diagnostics.
func RegistryErrorToGRPCInterceptor(logger log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			var regErr RegistryError
			if errors.As(err, &regErr) {
				level.Info(logger).Log(
					"msg", "gRPC handler error",
					"method", info.FullMethod,
					"error_code", regErr.Code,
					"error_message", regErr.Message,
					"error", err,
				)
			} else {
				level.Error(logger).Log(
					"msg", "gRPC handler error",
					"method", info.FullMethod,
					"err", err,
				)
			}
			err = RegistryErrorToGRPC(err)
		}
		return resp, err
	}
}
