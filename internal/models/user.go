// Package models содержит доменные модели трекера посещений спортзала:
// участника клуба, его тренировки и производные сводки посещаемости.
// Структуры используются в бизнес‑логике, хранилище и HTTP‑слое.
package models

import "time"

// User представляет зарегистрированного участника клуба.
type User struct {
	ID              int64      `json:"id"`                          // Идентификатор, назначается хранилищем
	Username        string     `json:"username"`                    // Имя пользователя (уникальное, чувствительно к регистру)
	PasswordHash    string     `json:"-"`                           // Хэш пароля пользователя
	Email           string     `json:"email"`                       // Электронная почта
	LastPaymentDate *time.Time `json:"last_payment_date,omitempty"` // Дата последней оплаты абонемента
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`       // Дата окончания абонемента
	CreatedAt       time.Time  `json:"created_at"`
}

// Identity данные аутентифицированного пользователя, которые хранятся в сессии.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// MembershipActive сообщает, действует ли абонемент в день now (включая день окончания).
func (u *User) MembershipActive(now time.Time) bool {
	if u.ExpiryDate == nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	expiry := time.Date(u.ExpiryDate.Year(), u.ExpiryDate.Month(), u.ExpiryDate.Day(), 0, 0, 0, 0, time.UTC)
	return !expiry.Before(today)
}
