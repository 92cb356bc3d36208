// Package metrics собирает агрегированные счетчики протокола синхронизации
// и публикует их в Prometheus.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iudanet/famsync/pkg/api"
)

// Исходы синхронизации для метки outcome
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Collector агрегирует счетчики для GET /metrics и Prometheus
type Collector struct {
	registry *prometheus.Registry

	syncs       *prometheus.CounterVec
	duration    prometheus.Histogram
	conflicts   prometheus.Counter
	rateLimited prometheus.Counter
	batchItems  *prometheus.CounterVec

	mu              sync.Mutex
	totalDuration   time.Duration
	totalSyncs      int64
	successfulSyncs int64
	failedSyncs     int64
	totalConflicts  int64
}

// New создает коллектор с собственным реестром
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		syncs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "famsync_syncs_total",
				Help: "Total number of processed sync requests by outcome",
			},
			[]string{"outcome"},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "famsync_sync_duration_seconds",
				Help:    "Duration of sync request processing in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		conflicts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "famsync_conflicts_total",
				Help: "Total number of field conflicts reported to clients",
			},
		),
		rateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "famsync_rate_limited_total",
				Help: "Total number of sync requests rejected by the per-user rate limit",
			},
		),
		batchItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "famsync_batch_items_total",
				Help: "Total number of batch items by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveSync учитывает завершенную синхронизацию
func (c *Collector) ObserveSync(duration time.Duration, outcome string, conflicts int) {
	success := outcome == OutcomeSuccess || outcome == OutcomeConflict

	c.syncs.WithLabelValues(outcome).Inc()
	c.duration.Observe(duration.Seconds())
	if conflicts > 0 {
		c.conflicts.Add(float64(conflicts))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalSyncs++
	c.totalDuration += duration
	c.totalConflicts += int64(conflicts)
	if success {
		c.successfulSyncs++
	} else {
		c.failedSyncs++
	}
}

// ObserveRateLimited учитывает отклоненный лимитом запрос
func (c *Collector) ObserveRateLimited() {
	c.rateLimited.Inc()
}

// ObserveBatch учитывает результат пакета
func (c *Collector) ObserveBatch(processed, failed int) {
	c.batchItems.WithLabelValues("ok").Add(float64(processed - failed))
	c.batchItems.WithLabelValues("failed").Add(float64(failed))
}

// Snapshot возвращает агрегированные счетчики.
// AverageSyncTime в миллисекундах.
func (c *Collector) Snapshot() api.MetricsResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	var avg float64
	if c.totalSyncs > 0 {
		avg = float64(c.totalDuration.Microseconds()) / 1000 / float64(c.totalSyncs)
	}

	return api.MetricsResponse{
		TotalSyncs:      c.totalSyncs,
		SuccessfulSyncs: c.successfulSyncs,
		FailedSyncs:     c.failedSyncs,
		AverageSyncTime: avg,
		TotalConflicts:  c.totalConflicts,
	}
}

// Handler отдает метрики в формате Prometheus
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry возвращает реестр для регистрации дополнительных метрик
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
