// Package middlewarectx содержит HTTP middleware трекера: управление cookie‑сессией,
// проверку сессии на закрытых страницах, ограничение частоты входа и метрики запросов.
//
// RequireSession проверяет cookie сессии, подпись токена и то, что сессия
// не отозвана, и в случае успеха добавляет в контекст идентификатор и имя пользователя.
package middlewarectx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/magabrotheeeer/gym-tracker/internal/lib/session"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserID ключ для идентификатора пользователя в контексте
	UserID Key = "user_id"
	// Username ключ для имени пользователя в контексте
	Username Key = "username"
)

var (
	// ErrNoSession cookie сессии отсутствует.
	ErrNoSession = errors.New("no session")
	// ErrSessionRevoked сессия завершена или истекла в реестре.
	ErrSessionRevoked = errors.New("session revoked")
	// ErrSessionStore реестр сессий недоступен; сессия при этом может быть действующей.
	ErrSessionStore = errors.New("session store unavailable")
)

// Registry реестр активных сессий.
type Registry interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// SessionManager выпускает, читает и завершает cookie‑сессии.
type SessionManager struct {
	maker      *session.Maker
	registry   Registry
	cookieName string
	secure     bool
}

// NewSessionManager создаёт SessionManager.
func NewSessionManager(maker *session.Maker, registry Registry, cookieName string, secure bool) *SessionManager {
	return &SessionManager{
		maker:      maker,
		registry:   registry,
		cookieName: cookieName,
		secure:     secure,
	}
}

func registryKey(sessionID string) string {
	return "session:" + sessionID
}

// Issue открывает сессию для пользователя и записывает cookie в ответ.
func (m *SessionManager) Issue(ctx context.Context, w http.ResponseWriter, identity models.Identity) error {
	const op = "middlewarectx.Issue"

	token, claims, err := m.maker.GenerateToken(identity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := m.registry.Set(ctx, registryKey(claims.SessionID()), identity, m.maker.TTL()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		MaxAge:   int(m.maker.TTL().Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Load возвращает данные активной сессии запроса.
func (m *SessionManager) Load(r *http.Request) (*session.Claims, error) {
	const op = "middlewarectx.Load"

	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSession)
	}
	claims, err := m.maker.ParseToken(cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var identity models.Identity
	found, err := m.registry.Get(r.Context(), registryKey(claims.SessionID()), &identity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrSessionStore, err)
	}
	if !found || identity.UserID != claims.UserID {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionRevoked)
	}
	return claims, nil
}

// Clear завершает сессию запроса, если она есть, и удаляет cookie.
// Повторный вызов и вызов без сессии безопасны.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	const op = "middlewarectx.Clear"

	var err error
	if cookie, cerr := r.Cookie(m.cookieName); cerr == nil && cookie.Value != "" {
		if claims, perr := m.maker.ParseToken(cookie.Value); perr == nil {
			if ierr := m.registry.Invalidate(r.Context(), registryKey(claims.SessionID())); ierr != nil {
				err = fmt.Errorf("%s: %w", op, ierr)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return err
}

// UserIDFromContext возвращает идентификатор пользователя, добавленный RequireSession.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserID).(int64)
	return id, ok && id != 0
}

// UsernameFromContext возвращает имя пользователя, добавленное RequireSession.
func UsernameFromContext(ctx context.Context) string {
	username, _ := ctx.Value(Username).(string)
	return username
}

// WithIdentity добавляет данные пользователя в контекст.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	ctx = context.WithValue(ctx, UserID, identity.UserID)
	return context.WithValue(ctx, Username, identity.Username)
}
