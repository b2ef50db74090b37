// Package paymentread реализует HTTP-обработчик просмотра текущей оплаты абонемента.
package paymentread

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

// Data даты оплаты и окончания абонемента. Пустые, если оплаты ещё не было.
type Data struct {
	LastPaymentDate  string `json:"last_payment_date"`
	ExpiryDate       string `json:"expiry_date"`
	MembershipActive bool   `json:"membership_active"`
}

// Membership возвращает профиль пользователя.
type Membership interface {
	GetProfileByID(ctx context.Context, userID int64) (*models.User, error)
}

// Sessions завершает сессию, пользователь которой больше не существует.
type Sessions interface {
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Handler обрабатывает запросы просмотра оплаты.
type Handler struct {
	log        *slog.Logger
	membership Membership
	sessions   Sessions
	now        func() time.Time
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, membership Membership, sessions Sessions, now func() time.Time) *Handler {
	return &Handler{
		log:        log,
		membership: membership,
		sessions:   sessions,
		now:        now,
	}
}

// ServeHTTP godoc
// @Summary Текущая оплата
// @Tags Payment
// @Produce  json
// @Success 200 {object} response.Response{data=Data} "Даты оплаты и окончания"
// @Failure 401 {object} response.ErrorResponse "Нет активной сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payment [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.read"

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

	render.JSON(w, r, response.StatusOKWithData(Data{
		LastPaymentDate:  visitdate.FormatDay(user.LastPaymentDate),
		ExpiryDate:       visitdate.FormatDay(user.ExpiryDate),
		MembershipActive: user.MembershipActive(h.now()),
	}))
}
