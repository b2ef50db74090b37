package paymentread

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

type MembershipMock struct{ mock.Mock }

func (m *MembershipMock) GetProfileByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type SessionsMock struct{ mock.Mock }

func (m *SessionsMock) Clear(w http.ResponseWriter, r *http.Request) error {
	return m.Called(w, r).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/payment", nil)
	return req.WithContext(middlewarectx.WithIdentity(req.Context(), models.Identity{UserID: 1, Username: "alice"}))
}

func TestPaymentReadHandler_ServeHTTP(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	paid := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	expiry := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)

	members := new(MembershipMock)
	members.On("GetProfileByID", mock.Anything, int64(1)).
		Return(&models.User{ID: 1, LastPaymentDate: &paid, ExpiryDate: &expiry}, nil).Once()

	rec := httptest.NewRecorder()
	New(newNoopLogger(), members, new(SessionsMock), now).ServeHTTP(rec, newRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Data Data `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, Data{LastPaymentDate: "2024-01-15", ExpiryDate: "2024-02-14"}, got.Data)
}

func TestPaymentReadHandler_UserGone(t *testing.T) {
	members := new(MembershipMock)
	sessions := new(SessionsMock)
	members.On("GetProfileByID", mock.Anything, int64(1)).Return(nil, fmt.Errorf("op: %w", models.ErrNotFound)).Once()
	sessions.On("Clear", mock.Anything, mock.Anything).Return(nil).Once()

	rec := httptest.NewRecorder()
	New(newNoopLogger(), members, sessions, time.Now).ServeHTTP(rec, newRequest())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	sessions.AssertExpectations(t)
}
