package index

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-tracker/internal/lib/session"
)

type sessionsStub struct{ err error }

func (s sessionsStub) Load(*http.Request) (*session.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &session.Claims{UserID: 1}, nil
}

func TestIndexHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name         string
		sessions     sessionsStub
		wantRedirect string
	}{
		{"logged in", sessionsStub{}, "/dashboard"},
		{"anonymous", sessionsStub{err: errors.New("no session")}, "/login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			New(tt.sessions).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantRedirect, got["redirect"])
		})
	}
}
