// Package session реализует выпуск и разбор подписанных токенов сессии.
//
// Токен хранится в cookie и содержит идентификатор пользователя, его имя
// и случайный идентификатор сессии, по которому сессию можно отозвать.
package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims описывает данные сессии, хранящиеся в токене.
type Claims struct {
	UserID               int64  `json:"uid"`      // Идентификатор пользователя
	Username             string `json:"username"` // Имя пользователя
	jwt.RegisteredClaims        // ID идентификатор сессии, ExpiresAt срок её действия
}

// SessionID возвращает идентификатор сессии из стандартного поля jti.
func (c *Claims) SessionID() string {
	return c.ID
}
