package gymtracker

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	// Регистрация сгенерированной swagger-документации.
	_ "github.com/magabrotheeeer/gym-tracker/docs"
	"github.com/magabrotheeeer/gym-tracker/internal/config"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/attendance/dashboard"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/attendance/logworkout"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/attendance/progress"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/attendance/workoutdefaults"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/health"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/index"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/payment/paymentread"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/payment/paymentupdate"
	"github.com/magabrotheeeer/gym-tracker/internal/http/middlewarectx"
	attendanceservice "github.com/magabrotheeeer/gym-tracker/internal/services/attendance"
	membershipservice "github.com/magabrotheeeer/gym-tracker/internal/services/membership"
)

// Deps зависимости обработчиков.
type Deps struct {
	Membership *membershipservice.MembershipService
	Attendance *attendanceservice.AttendanceService
	Sessions   *middlewarectx.SessionManager
	Metrics    *middlewarectx.Metrics
	Storage    health.Pinger
	Now        func() time.Time
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg config.HTTPServer, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		deps.Metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/", index.New(deps.Sessions).ServeHTTP)
		r.Get("/health", health.New(logger, deps.Storage).ServeHTTP)
		r.Post("/signup", signup.New(logger, deps.Membership).ServeHTTP)
		r.Post("/logout", logout.New(logger, deps.Sessions).ServeHTTP)
		r.With(middlewarectx.RateLimitMiddleware(logger, rate.Limit(cfg.LoginRate), cfg.LoginBurst)).
			Post("/login", login.New(logger, deps.Membership, deps.Sessions).ServeHTTP)

		// Группа с проверкой сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireSession(deps.Sessions, logger))
			r.Get("/dashboard", dashboard.New(logger, deps.Membership, deps.Attendance, deps.Sessions, deps.Now).ServeHTTP)
			r.Get("/progress", progress.New(logger, deps.Attendance, deps.Now).ServeHTTP)
			r.Post("/workouts", logworkout.New(logger, deps.Attendance).ServeHTTP)
			r.Get("/workouts/defaults", workoutdefaults.New(logger, deps.Now).ServeHTTP)
			r.Get("/payment", paymentread.New(logger, deps.Membership, deps.Sessions, deps.Now).ServeHTTP)
			r.Post("/payment", paymentupdate.New(logger, deps.Membership, deps.Sessions).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
