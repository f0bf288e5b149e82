package grpcserver

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName is the health service name reported next to the overall "" entry.
const ServiceName = "backoffice.Session"

const defaultInterval = time.Second

type Readiness interface {
	Ready() bool
}

// Server exposes the gRPC health protocol for the operator session, so
// orchestrators can hold traffic until the initial load is done.
type Server struct {
	grpc      *grpc.Server
	health    *health.Server
	readiness Readiness
	logger    *zap.Logger
	interval  time.Duration

	mu      sync.Mutex
	serving *bool
}

func NewServer(readiness Readiness, logger *zap.Logger) *Server {
	s := &Server{
		health:    health.NewServer(),
		readiness: readiness,
		logger:    logger.With(zap.String("component", "grpc")),
		interval:  defaultInterval,
	}
	s.grpc = grpc.NewServer(grpc.UnaryInterceptor(s.logUnary))
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.Refresh()
	return s
}

func (s *Server) Run(ctx context.Context, port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", port, err)
	}

	go s.watch(ctx)

	s.logger.Info("gRPC server starting", zap.String("port", port))
	return s.grpc.Serve(lis)
}

func (s *Server) Shutdown() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
	s.logger.Info("gRPC server shutdown completed")
}

// Refresh publishes the current readiness of the session.
func (s *Server) Refresh() {
	ready := s.readiness.Ready()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.serving != nil && *s.serving == ready {
		return
	}
	s.serving = &ready

	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
	s.logger.Info("Health status changed", zap.String("status", st.String()))
}

func (s *Server) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh()
		}
	}
}

func (s *Server) logUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	l := s.logger.With(
		zap.String("rpc_method", info.FullMethod),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		l.Warn("RPC failed", zap.String("code", status.Code(err).String()), zap.Error(err))
		return resp, err
	}
	l.Debug("RPC served")
	return resp, nil
}
