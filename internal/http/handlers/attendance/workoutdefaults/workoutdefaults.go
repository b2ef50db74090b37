// Package workoutdefaults отдаёт значения по умолчанию для формы записи посещения.
package workoutdefaults

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/visitdate"
)

// Data сегодняшняя дата и текущее время.
type Data struct {
	Date string `json:"workout_date"`
	Time string `json:"workout_time"`
}

// Handler обрабатывает запросы значений по умолчанию.
type Handler struct {
	log *slog.Logger
	now func() time.Time
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, now func() time.Time) *Handler {
	return &Handler{
		log: log,
		now: now,
	}
}

// ServeHTTP godoc
// @Summary Значения формы посещения
// @Tags Attendance
// @Produce  json
// @Success 200 {object} response.Response{data=Data} "Сегодняшняя дата и текущее время"
// @Router /workouts/defaults [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	render.JSON(w, r, response.StatusOKWithData(Data{
		Date: now.Format(visitdate.DateLayout),
		Time: now.Format("15:04"),
	}))
}
