// Package paymentupdate реализует HTTP-обработчик записи оплаты абонемента.
//
// Дата окончания вычисляется сервисом: дата оплаты плюс 30 дней.
package paymentupdate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/visitdate"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// Request дата оплаты в формате 2006-01-02.
type Request struct {
	PaymentDate string `json:"payment_date" form:"payment_date"`
}

// Data записанные даты.
type Data struct {
	LastPaymentDate string `json:"last_payment_date"`
	ExpiryDate      string `json:"expiry_date"`
}

// Membership записывает оплату.
type Membership interface {
	RecordPayment(ctx context.Context, userID int64, paymentDate string) (*models.Payment, error)
}

// Sessions завершает сессию, пользователь которой больше не существует.
type Sessions interface {
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Handler обрабатывает запросы записи оплаты.
type Handler struct {
	log        *slog.Logger
	membership Membership
	sessions   Sessions
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, membership Membership, sessions Sessions) *Handler {
	return &Handler{
		log:        log,
		membership: membership,
		sessions:   sessions,
	}
}

// ServeHTTP godoc
// @Summary Записать оплату
// @Description Перезаписывает дату последней оплаты и дату окончания абонемента.
// @Tags Payment
// @Accept  json
// @Produce  json
// @Param request body Request true "Дата оплаты"
// @Success 200 {object} response.Response{data=Data} "Оплата записана"
// @Failure 400 {object} response.ErrorResponse "Неверная дата"
// @Failure 401 {object} response.ErrorResponse "Нет активной сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.update"

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

	payment, err := h.membership.RecordPayment(r.Context(), userID, req.PaymentDate)
	switch {
	case errors.Is(err, models.ErrValidation):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Please provide a valid payment date."))
		return
	case errors.Is(err, models.ErrNotFound):
		log.Warn("session user no longer exists", sl.UserID(userID))
		if err := h.sessions.Clear(w, r); err != nil {
			log.Warn("failed to revoke session", sl.Err(err))
		}
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Warning(middlewarectx.NoticeLoginRequired).WithRedirect("/login"))
		return
	case err != nil:
		log.Error("failed to record payment", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OK("Payment updated successfully!").
		WithRedirect("/dashboard").
		WithData(Data{
			LastPaymentDate: payment.LastPaymentDate.Format(visitdate.DateLayout),
			ExpiryDate:      payment.ExpiryDate.Format(visitdate.DateLayout),
		}))
}
