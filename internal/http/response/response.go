// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Помимо статуса и данных ответ
// несёт уведомление для пользователя (notice) и путь, куда клиенту следует перейти (redirect).
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status статус запроса ("OK" или "Error").
// Поле Notice сообщение для показа пользователю, Level его категория.
// Поле Data данные ответа (опционально, при успехе).
// Поле Redirect страница, на которую следует перейти клиенту.
type Response struct {
	Status   string `json:"status"`
	Notice   string `json:"notice,omitempty"`
	Level    string `json:"level,omitempty"`
	Data     any    `json:"data,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status   string `json:"status" example:"Error"`
	Notice   string `json:"notice" example:"Please select a date."`
	Level    string `json:"level" example:"error"`
	Redirect string `json:"redirect,omitempty" example:"/login"`
}

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Категории уведомлений.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// OK возвращает успешный Response с уведомлением.
func OK(notice string) Response {
	return Response{
		Status: StatusOK,
		Notice: notice,
		Level:  LevelSuccess,
	}
}

// Info возвращает успешный Response с информационным уведомлением.
func Info(notice string) Response {
	return Response{
		Status: StatusOK,
		Notice: notice,
		Level:  LevelInfo,
	}
}

// Warning возвращает Response с ошибкой и предупреждением.
func Warning(msg string) Response {
	return Response{
		Status: StatusError,
		Notice: msg,
		Level:  LevelWarning,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Notice: msg,
		Level:  LevelError,
	}
}

// WithRedirect возвращает копию ответа с указанным путём перехода.
func (r Response) WithRedirect(path string) Response {
	r.Redirect = path
	return r
}

// WithData возвращает копию ответа с данными.
func (r Response) WithData(data any) Response {
	r.Data = data
	return r
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "datetime":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has invalid date format", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Notice: strings.Join(errsMsgs, ", "),
		Level:  LevelError,
	}
}
