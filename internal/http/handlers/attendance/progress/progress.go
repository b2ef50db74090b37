// Package progress реализует HTTP-обработчик страницы прогресса за текущий месяц.
package progress

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// Data посещения за месяц.
type Data struct {
	Username string   `json:"username"`
	Count    int      `json:"count"`
	Dates    []string `json:"dates"`
	Month    string   `json:"month"`
}

// Attendance возвращает сводку посещений.
type Attendance interface {
	Summary(ctx context.Context, userID int64, ref time.Time) (*models.AttendanceSummary, error)
}

// Handler обрабатывает запросы страницы прогресса.
type Handler struct {
	log        *slog.Logger
	attendance Attendance
	now        func() time.Time
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, attendance Attendance, now func() time.Time) *Handler {
	return &Handler{
		log:        log,
		attendance: attendance,
		now:        now,
	}
}

// ServeHTTP godoc
// @Summary Прогресс за месяц
// @Description Возвращает число посещений в текущем месяце и отсортированный список дней.
// @Tags Attendance
// @Produce  json
// @Success 200 {object} response.Response{data=Data} "Посещения за месяц"
// @Failure 401 {object} response.ErrorResponse "Нет активной сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /progress [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.attendance.progress"

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

	summary, err := h.attendance.Summary(r.Context(), userID, h.now())
	if err != nil {
		log.Error("failed to load attendance", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(Data{
		Username: middlewarectx.UsernameFromContext(r.Context()),
		Count:    summary.ThisMonthCount,
		Dates:    summary.VisitDays,
		Month:    summary.MonthLabel,
	}))
}
