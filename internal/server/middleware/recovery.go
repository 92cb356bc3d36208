package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/iudanet/famsync/pkg/api"
)

// RecoveryMiddleware создает middleware для восстановления после паники.
// Логирует стек вызовов и возвращает 500 с телом ErrorResponse без деталей паники.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// соединение уже разорвано намеренно
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("Panic recovered",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"stack", string(debug.Stack()),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "internal server error"})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
