// Package logworkout реализует HTTP-обработчик записи посещения.
package logworkout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// Request дата (2006-01-02) и необязательное время (15:04 или 15:04:05) посещения.
type Request struct {
	Date string `json:"workout_date" form:"workout_date"`
	Time string `json:"workout_time" form:"workout_time"`
}

// Attendance записывает посещение.
type Attendance interface {
	LogVisit(ctx context.Context, userID int64, date, timeOfDay string) (*models.Workout, error)
}

// Handler обрабатывает запросы записи посещения.
type Handler struct {
	log        *slog.Logger
	attendance Attendance
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, attendance Attendance) *Handler {
	return &Handler{
		log:        log,
		attendance: attendance,
	}
}

// ServeHTTP godoc
// @Summary Записать посещение
// @Description Записывает посещение за день. Второе посещение за тот же день не записывается.
// @Tags Attendance
// @Accept  json
// @Produce  json
// @Param request body Request true "Дата и время посещения"
// @Success 201 {object} response.Response{data=models.Workout} "Посещение записано"
// @Success 200 {object} response.Response "Посещение за этот день уже есть"
// @Failure 400 {object} response.ErrorResponse "Не указана дата"
// @Failure 401 {object} response.ErrorResponse "Нет активной сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /workouts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.attendance.logworkout"

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

	var req Request
	if err := render.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	req.Date = strings.TrimSpace(req.Date)
	if req.Date == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Please select a date."))
		return
	}

	workout, err := h.attendance.LogVisit(r.Context(), userID, req.Date, req.Time)
	switch {
	case errors.Is(err, models.ErrValidation):
		log.Info("invalid workout date", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Please provide a valid date and time."))
		return
	case errors.Is(err, models.ErrDuplicateVisit):
		render.JSON(w, r, response.Info("You already logged a workout for that date.").WithRedirect("/dashboard"))
		return
	case err != nil:
		log.Error("failed to log workout", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Could not save workout. Try again.").WithRedirect("/dashboard"))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OK("Workout logged successfully!").
		WithRedirect("/dashboard").
		WithData(workout))
}
