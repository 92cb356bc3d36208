package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/iudanet/famsync/internal/server/protocol"
	"github.com/iudanet/famsync/internal/server/storage"
	"github.com/iudanet/famsync/internal/validation"
	"github.com/iudanet/famsync/pkg/api"
)

// maxBodyBytes ограничение размера тела запроса
const maxBodyBytes = 1 << 20

// decodeJSON читает тело запроса с ограничением размера
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	sendJSON(logger, w, resp, statusCode)
}

// sendServiceError переводит ошибку сервиса протокола в HTTP статус
func sendServiceError(logger *slog.Logger, w http.ResponseWriter, err error) {
	var verrs validation.Errors
	var rateErr *protocol.RateLimitError

	switch {
	case errors.As(err, &verrs):
		sendJSON(logger, w, api.ErrorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: "validation failed",
			Details: verrs.Messages(),
		}, http.StatusBadRequest)
	case errors.Is(err, protocol.ErrUnknownStrategy):
		sendError(logger, w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &rateErr):
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(rateErr.RetryAfter.Seconds()))))
		sendError(logger, w, "rate limit exceeded", http.StatusTooManyRequests)
	case errors.Is(err, storage.ErrOperationNotFound):
		sendError(logger, w, "operation not found", http.StatusNotFound)
	default:
		logger.Error("Sync request failed", "error", err)
		sendError(logger, w, "internal server error", http.StatusInternalServerError)
	}
}
