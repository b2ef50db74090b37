package models

import "errors"

var (
	// ErrValidation обязательное поле отсутствует или имеет неверный формат.
	ErrValidation = errors.New("validation failed")
	// ErrAuthentication неверное имя пользователя или пароль.
	// Намеренно не различает отсутствующего пользователя и неверный пароль.
	ErrAuthentication = errors.New("invalid username or password")
	// ErrDuplicateUsername имя пользователя уже занято.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrDuplicateVisit посещение за этот день уже записано.
	ErrDuplicateVisit = errors.New("workout already logged for that date")
	// ErrNotFound пользователь не найден.
	ErrNotFound = errors.New("user not found")
)
