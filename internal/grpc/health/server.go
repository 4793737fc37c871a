// Package health реализует стандартный gRPC-сервис grpc.health.v1.Health.
//
// Статус обслуживания определяется периодической проверкой соединения с базой данных.
package health

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/subsense/internal/lib/sl"
)

// ServiceName - имя сервиса, под которым публикуется статус API подписок.
const ServiceName = "subsense.Subscriptions"

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server - gRPC-сервер со службой health.
type Server struct {
	log      *slog.Logger
	grpc     *grpc.Server
	health   *health.Server
	pinger   Pinger
	interval time.Duration
}

// New создаёт сервер. До первой проверки статус NOT_SERVING.
func New(log *slog.Logger, pinger Pinger, interval time.Duration) *Server {
	s := &Server{
		log:      log,
		grpc:     grpc.NewServer(),
		health:   health.NewServer(),
		pinger:   pinger,
		interval: interval,
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Serve принимает соединения на lis до остановки сервера.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("gRPC health server starting", slog.String("address", lis.Addr().String()))
	return s.grpc.Serve(lis)
}

// Check однократно проверяет зависимость и обновляет статус.
func (s *Server) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.Ping(ctx); err != nil {
		s.log.Warn("health check failed", sl.Err(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.setStatus(status)
	return status
}

// Watch выполняет Check каждые interval, пока не отменён ctx.
func (s *Server) Watch(ctx context.Context) {
	s.Check(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Stop переводит сервисы в NOT_SERVING и дожидается завершения активных вызовов.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
