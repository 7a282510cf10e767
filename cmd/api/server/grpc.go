package server

import (
	"go.uber.org/zap"
	grpc "google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"user-crud-service/cmd/api/di"
	"user-crud-service/pkg/logger"
)

// SetupGRPC creates the gRPC server exposing the health service
func SetupGRPC(c *di.Container, l *zap.Logger) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			c.RateLimiter.UnaryInterceptor(),
		),
	)
	healthpb.RegisterHealthServer(grpcServer, c.GRPCHealth)

	l.Info("gRPC health service configured")
	return grpcServer
}
