// Package password реализует сервис учётных данных: bcrypt‑хеширование паролей
// и проверку пароля по сохранённому хешу.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch возвращается, если пароль не соответствует хешу.
var ErrMismatch = errors.New("password does not match")

// Hasher хеширует и проверяет пароли с заданной стоимостью bcrypt.
type Hasher struct {
	cost int
}

// NewHasher создаёт Hasher. Стоимость вне допустимого диапазона заменяется на bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash возвращает bcrypt‑хеш пароля.
func (h *Hasher) Hash(password string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify сравнивает пароль с хешем. Любое несовпадение, включая повреждённый хеш,
// возвращается как ErrMismatch.
func (h *Hasher) Verify(password, digest string) error {
	const op = "password.Verify"
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrMismatch, err)
	}
	return nil
}
