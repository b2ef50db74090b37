// Package dashboard реализует HTTP-обработчик главной страницы пользователя:
// общее число посещений, посещения за текущий месяц и состояние абонемента.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/visitdate"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// Data данные дашборда.
type Data struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	TotalWorkouts    int    `json:"total_workouts"`
	ThisMonthCount   int    `json:"this_month_count"`
	LastPaymentDate  string `json:"last_payment_date,omitempty"`
	ExpiryDate       string `json:"expiry_date,omitempty"`
	MembershipActive bool   `json:"membership_active"`
}

// Membership возвращает профиль пользователя.
type Membership interface {
	GetProfileByID(ctx context.Context, userID int64) (*models.User, error)
}

// Attendance возвращает сводку посещений.
type Attendance interface {
	Summary(ctx context.Context, userID int64, ref time.Time) (*models.AttendanceSummary, error)
}

// Sessions завершает сессию, пользователь которой больше не существует.
type Sessions interface {
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Handler обрабатывает запросы дашборда.
type Handler struct {
	log        *slog.Logger
	membership Membership
	attendance Attendance
	sessions   Sessions
	now        func() time.Time
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, membership Membership, attendance Attendance, sessions Sessions, now func() time.Time) *Handler {
	return &Handler{
		log:        log,
		membership: membership,
		attendance: attendance,
		sessions:   sessions,
		now:        now,
	}
}

// ServeHTTP godoc
// @Summary Дашборд
// @Description Возвращает число посещений всего и за текущий месяц, дату последней оплаты и окончания абонемента.
// @Tags Attendance
// @Produce  json
// @Success 200 {object} response.Response{data=Data} "Данные дашборда"
// @Failure 401 {object} response.ErrorResponse "Нет активной сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.attendance.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Warning(middlewarectx.NoticeLoginRequired).WithRedirect("/login"))
		return
	}

	user, err := h.membership.GetProfileByID(r.Context(), userID)
	if errors.Is(err, models.ErrNotFound) {
		log.Warn("session user no longer exists", sl.UserID(userID))
		if err := h.sessions.Clear(w, r); err != nil {
			log.Warn("failed to revoke session", sl.Err(err))
		}
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Warning(middlewarectx.NoticeLoginRequired).WithRedirect("/login"))
		return
	}
	if err != nil {
		log.Error("failed to load profile", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	now := h.now()
	summary, err := h.attendance.Summary(r.Context(), userID, now)
	if err != nil {
		log.Error("failed to load attendance", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(Data{
		Username:         user.Username,
		Email:            user.Email,
		TotalWorkouts:    summary.Total,
		ThisMonthCount:   summary.ThisMonthCount,
		LastPaymentDate:  visitdate.FormatDay(user.LastPaymentDate),
		ExpiryDate:       visitdate.FormatDay(user.ExpiryDate),
		MembershipActive: user.MembershipActive(now),
	}))
}
