// Package gymtracker собирает HTTP-приложение трекера: хранилище, кеш,
// сервисы, сессии и маршруты, а также управляет их жизненным циклом.
package gymtracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"

	"github.com/magabrotheeeer/gym-tracker/internal/cache"
	"github.com/magabrotheeeer/gym-tracker/internal/config"
	grpcserver "github.com/magabrotheeeer/gym-tracker/internal/grpc/server"
	"github.com/magabrotheeeer/gym-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/password"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/session"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/migrations"
	attendanceservice "github.com/magabrotheeeer/gym-tracker/internal/services/attendance"
	membershipservice "github.com/magabrotheeeer/gym-tracker/internal/services/membership"
	"github.com/magabrotheeeer/gym-tracker/internal/storage"
)

// App HTTP-приложение трекера с gRPC-сервером проверки здоровья.
type App struct {
	server       *http.Server
	grpcServer   *grpc.Server
	grpcListener net.Listener
	health       *grpcserver.HealthServer
	logger       *slog.Logger
	db           *storage.Storage
	cache        *cache.Cache
}

// New подключает хранилище и кеш, готовит схему, создаёт демо‑пользователя и маршруты.
// Все шаги подготовки идемпотентны.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = db.EnsurePaymentColumns(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	membershipService := membershipservice.NewMembershipService(db, password.NewHasher(bcrypt.DefaultCost), logger)
	if !cfg.DemoUser.Disabled {
		demo := membershipservice.DemoAccount{
			Username: cfg.DemoUser.Username,
			Password: cfg.DemoUser.Password,
			Email:    cfg.DemoUser.Email,
		}
		if err := membershipService.SeedDemoUser(ctx, demo, time.Now()); err != nil {
			_ = cacheRedis.Close()
			_ = db.Close()
			return nil, err
		}
	}
	attendanceService := attendanceservice.NewAttendanceService(db, cacheRedis, cfg.RedisConnection.VisitsTTL, logger)

	maker := session.NewMaker(cfg.Session.SecretKey, cfg.Session.TTL)
	sessions := middlewarectx.NewSessionManager(maker, cacheRedis, cfg.Session.CookieName, cfg.Session.Secure)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.HTTPServer, Deps{
		Membership: membershipService,
		Attendance: attendanceService,
		Sessions:   sessions,
		Metrics:    middlewarectx.NewMetrics(prometheus.DefaultRegisterer),
		Storage:    db,
		Now:        time.Now,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	lis, err := net.Listen("tcp", cfg.GRPCServer.AddressGRPC)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to listen gRPC: %w", err)
	}
	grpcServer := grpc.NewServer()
	healthServer := grpcserver.NewHealthServer(db, cfg.GRPCServer.HealthInterval, logger)
	healthServer.Register(grpcServer)

	return &App{
		server:       srv,
		grpcServer:   grpcServer,
		grpcListener: lis,
		health:       healthServer,
		logger:       logger,
		db:           db,
		cache:        cacheRedis,
	}, nil
}

// Run запускает HTTP- и gRPC-серверы и корректно останавливает их при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	healthCtx, stopHealth := context.WithCancel(ctx)
	defer stopHealth()
	go a.health.Watch(healthCtx)

	go func() {
		a.logger.Info("gRPC health server listening on", slog.String("address", a.grpcListener.Addr().String()))
		if err := a.grpcServer.Serve(a.grpcListener); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.grpcServer.Stop()
		_ = a.server.Close()
		a.closeResources()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.grpcServer.GracefulStop()
		a.closeResources()
		return err
	}
}

func (a *App) closeResources() {
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
