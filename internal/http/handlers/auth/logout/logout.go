// Package logout реализует HTTP-обработчик выхода пользователя.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
)

// Sessions завершает сессию запроса.
type Sessions interface {
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Handler обрабатывает HTTP-запросы для выхода.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
	}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Завершает сессию и удаляет cookie. Работает и без активной сессии.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Сессия завершена"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.sessions.Clear(w, r); err != nil {
		log.Warn("failed to revoke session", sl.Err(err))
	}

	render.JSON(w, r, response.Info("You have been logged out.").WithRedirect("/login"))
}
