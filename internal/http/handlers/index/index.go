// Package index сообщает клиенту, куда перейти с корневой страницы:
// на дашборд при активной сессии, иначе на страницу входа.
package index

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/session"
)

// Sessions читает сессию запроса.
type Sessions interface {
	Load(r *http.Request) (*session.Claims, error)
}

// Handler обрабатывает запросы к корню API.
type Handler struct {
	sessions Sessions
}

// New создает новый экземпляр Handler.
func New(sessions Sessions) *Handler {
	return &Handler{sessions: sessions}
}

// ServeHTTP godoc
// @Summary Корневая страница
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Куда перейти"
// @Router / [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := "/login"
	if _, err := h.sessions.Load(r); err == nil {
		target = "/dashboard"
	}
	render.JSON(w, r, response.Response{Status: response.StatusOK}.WithRedirect(target))
}
