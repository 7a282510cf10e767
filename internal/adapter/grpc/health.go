package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"user-crud-service/pkg/logger"
)

const probeTimeout = 2 * time.Second

// HealthServer implements grpc.health.v1.Health by probing the database on every Check.
type HealthServer struct {
	healthpb.UnimplementedHealthServer
	service string
	probe   func(ctx context.Context) error
	log     *zap.Logger
}

// NewHealthServer creates a new gRPC health server. The empty service name and
// service are both answered; a nil probe always reports SERVING.
func NewHealthServer(service string, probe func(ctx context.Context) error, log *zap.Logger) *HealthServer {
	return &HealthServer{service: service, probe: probe, log: log}
}

// Check reports SERVING when the probe succeeds and NOT_SERVING otherwise.
func (s *HealthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if name := req.GetService(); name != "" && name != s.service {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", name)
	}

	if s.probe != nil {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()

		if err := s.probe(probeCtx); err != nil {
			logger.WithContext(ctx, s.log).Warn("health probe failed", zap.Error(err))
			return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
		}
	}

	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
