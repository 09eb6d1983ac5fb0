// Пакет apperr — таксономия ошибок приложения и их отображение на HTTP-статусы.
// Ядро возвращает типизированные ошибки; транспорт только переводит их в статус.
package apperr

import (
	"errors"
	"net/http"
)

// Базовые виды ошибок (sentinel). Проверяются через errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrMalformed       = errors.New("malformed request")
	ErrNotFound        = errors.New("resource not found")
	ErrInternal        = errors.New("internal error")
)

// Error — ошибка приложения: вид + сообщение для клиента.
// Сообщение называет проблемное поле/идентификатор, но не раскрывает чужие данные.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error { return e.Kind }

// Конструкторы по видам.

func Unauthenticated(msg string) *Error { return &Error{Kind: ErrUnauthenticated, Message: msg} }
func Forbidden(msg string) *Error       { return &Error{Kind: ErrForbidden, Message: msg} }
func Malformed(msg string) *Error       { return &Error{Kind: ErrMalformed, Message: msg} }
func NotFound(msg string) *Error        { return &Error{Kind: ErrNotFound, Message: msg} }
func Internal(msg string) *Error        { return &Error{Kind: ErrInternal, Message: msg} }

// HTTPStatus — отображение вида ошибки на статус ответа.
// Unauthenticated и Forbidden намеренно дают один и тот же 403:
// внешний контракт не различает «нет токена» и «нет прав».
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrMalformed):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
