package grpcserver

import (
	"context"
	"net"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"cogitRecords/internal/auth"
	"cogitRecords/internal/config"
	"cogitRecords/internal/session"
	"cogitRecords/record"
)

const healthCheckMethod = "/grpc.health.v1.Health/Check"

// Deps are the collaborators shared by the gRPC services.
type Deps struct {
	Store    *record.Store
	Sessions session.Store
	Hasher   *auth.Hasher
	Log      zerolog.Logger
}

// NewServer builds the gRPC server with the auth interceptor, UserRecords and the health service.
func NewServer(cfg *config.Config, deps Deps) *grpc.Server {
	if cfg == nil {
		panic("config is required")
	}
	srv := grpc.NewServer(grpc.UnaryInterceptor(auth.NewUnaryAuthInterceptor(
		cfg.Auth.JWTSecret,
		healthCheckMethod,
		registerMethod,
		loginMethod,
	)))

	RegisterUserRecordsServer(srv, &UserRecordsServer{
		Store:    deps.Store,
		Sessions: deps.Sessions,
		Hasher:   deps.Hasher,
		Secret:   cfg.Auth.JWTSecret,
		TokenTTL: cfg.TokenTTL(),
		Log:      deps.Log,
	})

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(UserRecordsServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}

// StartGRPC starts the gRPC server on cfg.GRPC.Address and returns a shutdown function.
func StartGRPC(cfg *config.Config, deps Deps) (func(context.Context) error, error) {
	srv := NewServer(cfg, deps)

	addr := cfg.GRPC.Address
	if addr == "" {
		addr = ":50051"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := srv.Serve(lis); err != nil {
			deps.Log.Error().Err(err).Msg("grpc serve")
		}
	}()

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}
