package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/famsync/internal/server/auth"
	"github.com/iudanet/famsync/pkg/api"
)

// AuthMiddleware создает middleware для проверки bearer-токена.
// Результат проверки сохраняется в контексте (auth.FromContext).
func AuthMiddleware(logger *slog.Logger, verifier *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				unauthorized(w, "missing token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				logger.Warn("Invalid Authorization header format", "path", r.URL.Path)
				unauthorized(w, "invalid token format")
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				unauthorized(w, "invalid token")
				return
			}

			if identity.Verified {
				logger.Debug("User authenticated", "user_id", identity.UserID)
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "unauthorized", Message: message})
}
