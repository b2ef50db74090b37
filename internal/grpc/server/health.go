// Package server реализует gRPC-сервер проверки здоровья трекера.
//
// HealthServer публикует стандартный сервис grpc.health.v1 и периодически
// обновляет статус по результату проверки хранилища.
package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
)

// ServiceName имя сервиса, под которым публикуется статус трекера.
const ServiceName = "gymtracker.GymTracker"

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer хранит статус сервиса и обновляет его по расписанию.
type HealthServer struct {
	health   *health.Server
	db       Pinger
	interval time.Duration
	log      *slog.Logger
}

// NewHealthServer создает новый экземпляр HealthServer. До первой проверки статус NOT_SERVING.
func NewHealthServer(db Pinger, interval time.Duration, logger *slog.Logger) *HealthServer {
	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthServer{
		health:   h,
		db:       db,
		interval: interval,
		log:      logger,
	}
}

// Register регистрирует сервис здоровья на gRPC-сервере.
func (s *HealthServer) Register(grpcServer *grpc.Server) {
	healthpb.RegisterHealthServer(grpcServer, s.health)
}

// Probe проверяет хранилище и выставляет статус.
func (s *HealthServer) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.Ping(ctx); err != nil {
		s.log.Warn("storage ping failed", sl.Err(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Watch выполняет Probe сразу и затем каждые interval до отмены ctx.
// После отмены сервер переходит в состояние остановки.
func (s *HealthServer) Watch(ctx context.Context) {
	s.Probe(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return
		case <-ticker.C:
			s.Probe(ctx)
		}
	}
}
