package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError ответ сервера с кодом вне 2xx
type StatusError struct {
	Message    string
	Details    []string
	StatusCode int
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	if len(e.Details) > 0 {
		msg += ": " + strings.Join(e.Details, "; ")
	}
	return msg
}

// Retryable сообщает, имеет ли смысл повторять запрос.
// Ошибки валидации, авторизации и rate limit не повторяются этим слоем.
func (e *StatusError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusUnprocessableEntity,
		http.StatusTooManyRequests:
		return false
	}
	return e.StatusCode >= 500 || e.StatusCode == http.StatusRequestTimeout
}

// IsRetryable классифицирует ошибку вызова протокола.
// Все, что не является ответом сервера (сеть, таймаут, открытый circuit breaker),
// считается временным.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return true
}

// IsRateLimited сообщает, отклонен ли запрос лимитом сервера
func IsRateLimited(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests
}
