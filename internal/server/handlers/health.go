package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/famsync/pkg/api"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	pinger  Pinger
	now     func() time.Time
	version string
}

// NewHealthHandler создает новый handler для health check.
// pinger может быть nil: тогда база данных не проверяется.
func NewHealthHandler(logger *slog.Logger, pinger Pinger, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		pinger:  pinger,
		now:     time.Now,
		version: version,
	}
}

// Health обрабатывает GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC(),
		Version:   h.version,
	}

	status := http.StatusOK
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.logger.Error("Health check failed", slog.Any("error", err))
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	sendJSON(h.logger, w, resp, status)
}
