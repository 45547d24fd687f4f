// Package grpcutil provides the gRPC health server and its interceptors.
package grpcutil

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServerConfig holds gRPC server configuration.
type ServerConfig struct {
	Port               int
	ServiceName        string
	EnableReflection   bool
	ShutdownTimeout    time.Duration
	CheckInterval      time.Duration
	UnaryInterceptors  []grpc.UnaryServerInterceptor
	StreamInterceptors []grpc.StreamServerInterceptor
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig(port int, serviceName string) ServerConfig {
	return ServerConfig{
		Port:             port,
		ServiceName:      serviceName,
		EnableReflection: true,
		ShutdownTimeout:  10 * time.Second,
		CheckInterval:    30 * time.Second,
	}
}

// Checker is a dependency whose availability is published as a health
// status under "<service>/<name>".
type Checker interface {
	Name() string
	Available(ctx context.Context) bool
}

// Server is a gRPC server carrying the standard health service.
type Server struct {
	grpcServer   *grpc.Server
	healthServer *health.Server
	config       ServerConfig
	logger       *slog.Logger
}

// NewServer creates a new gRPC server.
func NewServer(cfg ServerConfig, logger *slog.Logger) *Server {
	unary := append(
		[]grpc.UnaryServerInterceptor{
			LoggingUnaryInterceptor(logger),
			RecoveryUnaryInterceptor(logger),
		},
		cfg.UnaryInterceptors...,
	)
	stream := append(
		[]grpc.StreamServerInterceptor{
			LoggingStreamInterceptor(logger),
			RecoveryStreamInterceptor(logger),
		},
		cfg.StreamInterceptors...,
	)

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(unary...),
		grpc.ChainStreamInterceptor(stream...),
	)

	s := &Server{
		grpcServer:   grpcServer,
		healthServer: health.NewServer(),
		config:       cfg,
		logger:       logger.With("component", "grpc"),
	}

	if cfg.EnableReflection {
		reflection.Register(grpcServer)
	}
	grpc_health_v1.RegisterHealthServer(grpcServer, s.healthServer)
	s.healthServer.SetServingStatus(cfg.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return s
}

// GRPCServer returns the underlying gRPC server.
func (s *Server) GRPCServer() *grpc.Server {
	return s.grpcServer
}

// SetServingStatus sets the status of the service itself.
func (s *Server) SetServingStatus(status grpc_health_v1.HealthCheckResponse_ServingStatus) {
	s.healthServer.SetServingStatus(s.config.ServiceName, status)
}

// CheckName is the health service name a checker is published under.
func (s *Server) CheckName(c Checker) string {
	return s.config.ServiceName + "/" + c.Name()
}

// Refresh publishes the current status of every checker. The service itself
// is serving while at least one checker is available.
func (s *Server) Refresh(ctx context.Context, checks []Checker) {
	anyUp := false
	for _, c := range checks {
		status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
		if c.Available(ctx) {
			status = grpc_health_v1.HealthCheckResponse_SERVING
			anyUp = true
		}
		s.healthServer.SetServingStatus(s.CheckName(c), status)
	}

	if len(checks) == 0 {
		return
	}
	if anyUp {
		s.SetServingStatus(grpc_health_v1.HealthCheckResponse_SERVING)
	} else {
		s.logger.WarnContext(ctx, "no dependency available", "service", s.config.ServiceName)
		s.SetServingStatus(grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	}
}

// Watch refreshes checks every CheckInterval until ctx is done.
func (s *Server) Watch(ctx context.Context, checks []Checker) {
	s.Refresh(ctx, checks)
	if s.config.CheckInterval <= 0 {
		return
	}

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx, checks)
		}
	}
}

// Run listens on the configured port and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(ctx, lis)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gRPC server starting", "addr", lis.Addr().String(), "service", s.config.ServiceName)
		errCh <- s.grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	s.shutdown()
	return nil
}

func (s *Server) shutdown() {
	s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout)
	s.healthServer.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("graceful shutdown completed")
	case <-time.After(s.config.ShutdownTimeout):
		s.logger.Warn("graceful shutdown timed out, forcing stop")
		s.grpcServer.Stop()
	}
}
