// Package server собирает HTTP роутер протокола синхронизации
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/iudanet/famsync/internal/server/auth"
	"github.com/iudanet/famsync/internal/server/handlers"
	"github.com/iudanet/famsync/internal/server/middleware"
)

// RouterConfig зависимости роутера
type RouterConfig struct {
	Logger     *slog.Logger
	Sync       *handlers.SyncHandler
	Health     *handlers.HealthHandler
	Metrics    *handlers.MetricsHandler
	Prometheus http.Handler // nil отключает /metrics/prometheus
	Verifier   *auth.Verifier
	IPLimit    int // запросов в IPWindow с одного адреса, 0 отключает
	IPWindow   time.Duration
}

// NewRouter регистрирует маршруты.
// /health и /metrics* открыты, /sync* требуют Bearer токен.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.IPWindow <= 0 {
		cfg.IPWindow = time.Minute
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.LoggingWithSkip(cfg.Logger, []string{"/health", "/metrics", "/metrics/prometheus"}))
	r.Use(middleware.RecoveryMiddleware(cfg.Logger))
	r.Use(middleware.IPRateLimitMiddleware(cfg.IPLimit, cfg.IPWindow, cfg.Logger))

	r.Get("/health", cfg.Health.Health)
	r.Get("/metrics", cfg.Metrics.Metrics)
	if cfg.Prometheus != nil {
		r.Method(http.MethodGet, "/metrics/prometheus", cfg.Prometheus)
	}

	r.Route("/sync", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Logger, cfg.Verifier))

		r.Post("/", cfg.Sync.Sync)
		r.Get("/", cfg.Sync.Status)
		r.Put("/", cfg.Sync.UpdateOperation)
		r.Post("/batch", cfg.Sync.Batch)
		r.Get("/operations/{operationId}", cfg.Sync.Operation)
	})

	return r
}
