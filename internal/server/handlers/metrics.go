package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/famsync/pkg/api"
)

// MetricsSource источник агрегированных счетчиков
type MetricsSource interface {
	Metrics() api.MetricsResponse
}

// MetricsHandler отдает агрегированные счетчики в JSON
type MetricsHandler struct {
	logger *slog.Logger
	source MetricsSource
}

// NewMetricsHandler создает handler для GET /metrics
func NewMetricsHandler(logger *slog.Logger, source MetricsSource) *MetricsHandler {
	return &MetricsHandler{logger: logger, source: source}
}

// Metrics обрабатывает GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	sendJSON(h.logger, w, h.source.Metrics(), http.StatusOK)
}
