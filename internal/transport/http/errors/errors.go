// errors стандартизирует ответы об ошибках HTTP API:
//   - корректный HTTP-статус по доменной ошибке;
//   - краткое безопасное message без утечки деталей.
package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/pribylovaa/reddit-threads/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат ошибки.
// Code — короткий стабильный код, Message — безопасное описание,
// RequestID — из X-Request-Id, если есть.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку сервиса в HTTP-статус и тело ответа:
//   - service.ErrInvalidArgument -> 400;
//   - service.ErrNotFound -> 404;
//   - context.Canceled -> 499;
//   - context.DeadlineExceeded -> 504;
//   - nil и прочее -> 500/internal.
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := http.StatusInternalServerError, "internal", "internal error"

	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidArgument):
		status, code, msg = http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, service.ErrNotFound):
		status, code, msg = http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, context.Canceled):
		status, code, msg = StatusClientClosedRequest, "canceled", "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		status, code, msg = http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	}

	return status, ErrorResponse{Error: APIError{Code: code, Message: msg}}
}

// WriteError пишет статус и тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
