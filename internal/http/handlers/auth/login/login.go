// Package login реализует HTTP-обработчик входа пользователя.
//
// Принимает имя пользователя и пароль (JSON или форма), проверяет их через
// сервис участников клуба и при успехе открывает cookie‑сессию.
package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// Request структура входных данных для входа.
type Request struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// Sessions открывает сессию для аутентифицированного пользователя.
type Sessions interface {
	Issue(ctx context.Context, w http.ResponseWriter, identity models.Identity) error
}

// Handler обрабатывает HTTP-запросы для входа.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет имя пользователя и пароль и открывает cookie‑сессию.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Response "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Не заполнены поля"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	user, err := h.service.Authenticate(r.Context(), strings.TrimSpace(req.Username), req.Password)
	switch {
	case errors.Is(err, models.ErrValidation):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Please enter both username and password."))
		return
	case errors.Is(err, models.ErrAuthentication):
		log.Info("login rejected", slog.String("username", req.Username))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Invalid username or password."))
		return
	case err != nil:
		log.Error("login failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	identity := models.Identity{UserID: user.ID, Username: user.Username}
	if err := h.sessions.Issue(r.Context(), w, identity); err != nil {
		log.Error("failed to open session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("login success", sl.UserID(user.ID))
	render.JSON(w, r, response.OK(fmt.Sprintf("Welcome back, %s!", user.Username)).
		WithRedirect("/dashboard").
		WithData(identity))
}
