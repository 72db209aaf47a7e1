package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ogurasousui/employee-directory/internal/adapters/grpc/handler"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	defaultShutdownTimeout   = 10 * time.Second
	defaultReadinessInterval = 5 * time.Second
	readinessProbeTimeout    = 2 * time.Second
)

// Pinger は準備状態の確認に使う依存先です。
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config はサーバーの待ち受けと停止に関する設定です。
type Config struct {
	GRPCAddr          string
	HTTPAddr          string
	ShutdownTimeout   time.Duration
	ReadinessInterval time.Duration
}

// Server は gRPC / HTTP サーバーのライフサイクルを管理します。
type Server struct {
	cfg        Config
	grpcServer *grpc.Server
	httpServer *http.Server
	health     *health.Server
	readiness  Pinger
	log        zerolog.Logger
}

// New は社員名簿サービスを登録した gRPC サーバーと、httpHandler を配信する HTTP サーバーを構築します。
// httpHandler が nil または HTTPAddr が空の場合、HTTP サーバーは起動しません。
func New(cfg Config, directory handler.EmployeeDirectoryServer, httpHandler http.Handler, readiness Pinger, logger zerolog.Logger, opts ...grpc.ServerOption) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.ReadinessInterval <= 0 {
		cfg.ReadinessInterval = defaultReadinessInterval
	}

	logger = logger.With().Str("component", "server").Logger()

	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			UnaryRequestID(),
			UnaryAccessLog(logger),
			UnaryRecovery(logger),
		),
	}, opts...)

	srv := grpc.NewServer(opts...)
	handler.RegisterEmployeeDirectoryServer(srv, directory)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(handler.EmployeeDirectoryServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	s := &Server{
		cfg:        cfg,
		grpcServer: srv,
		health:     hs,
		readiness:  readiness,
		log:        logger,
	}

	if httpHandler != nil && cfg.HTTPAddr != "" {
		s.httpServer = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           httpHandler,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return s
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	grpcLis, err := net.Listen("tcp", s.cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.GRPCAddr, err)
	}

	var httpLis net.Listener
	if s.httpServer != nil {
		httpLis, err = net.Listen("tcp", s.cfg.HTTPAddr)
		if err != nil {
			_ = grpcLis.Close()
			return fmt.Errorf("listen on %s: %w", s.cfg.HTTPAddr, err)
		}
	}

	return s.Serve(ctx, grpcLis, httpLis)
}

// Serve は渡されたリスナーで待ち受けます。httpLis が nil の場合 HTTP は起動しません。
func (s *Server) Serve(ctx context.Context, grpcLis, httpLis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", grpcLis.Addr().String()).Msg("gRPC server listening")
		if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})

	if s.httpServer != nil && httpLis != nil {
		g.Go(func() error {
			s.log.Info().Str("addr", httpLis.Addr().String()).Msg("HTTP server listening")
			if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve HTTP: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		s.watchReadiness(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.shutdown()
		return nil
	})

	return g.Wait()
}

// GracefulStop はサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.shutdown()
}

func (s *Server) shutdown() {
	s.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.log.Warn().Err(err).Msg("HTTP server shutdown incomplete")
		}
	}

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		s.log.Warn().Msg("gRPC graceful stop timed out, forcing stop")
		s.grpcServer.Stop()
	}

	s.log.Info().Msg("servers stopped")
}

// watchReadiness は依存先の疎通結果をヘルスチェックの状態へ反映します。
func (s *Server) watchReadiness(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.ReadinessInterval)
	defer ticker.Stop()

	last := healthpb.HealthCheckResponse_UNKNOWN
	for {
		current := s.probe(ctx)
		if ctx.Err() != nil {
			return
		}
		if current != last {
			s.health.SetServingStatus("", current)
			s.health.SetServingStatus(handler.EmployeeDirectoryServiceName, current)
			s.log.Info().Str("status", current.String()).Msg("readiness changed")
			last = current
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	if s.readiness == nil {
		return healthpb.HealthCheckResponse_SERVING
	}

	probeCtx, cancel := context.WithTimeout(ctx, readinessProbeTimeout)
	defer cancel()

	if err := s.readiness.Ping(probeCtx); err != nil {
		s.log.Warn().Err(err).Msg("readiness probe failed")
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}
