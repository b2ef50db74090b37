package middlewarectx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// NoticeLoginRequired уведомление для запроса без действующей сессии.
const NoticeLoginRequired = "Please log in first."

// RequireSession возвращает middleware, который пропускает только запросы с действующей сессией.
//
// Иначе отвечает 401 Unauthorized и redirect на /login. Если недоступен реестр сессий,
// отвечает 500 без redirect.
func RequireSession(sessions *SessionManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireSession"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			claims, err := sessions.Load(r)
			if errors.Is(err, ErrSessionStore) {
				log.Error("failed to check session", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}
			if err != nil {
				log.Info("session rejected", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Warning(NoticeLoginRequired).WithRedirect("/login"))
				return
			}

			ctx := WithIdentity(r.Context(), models.Identity{UserID: claims.UserID, Username: claims.Username})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
