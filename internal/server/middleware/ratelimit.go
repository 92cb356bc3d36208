package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/httprate"

	"github.com/iudanet/famsync/pkg/api"
)

// RateLimiter ограничивает число запросов на ключ в скользящем окне.
// В отличие от фиксированного окна, лимит не сбрасывается целиком на границе окна:
// каждый запрос освобождает слот ровно через window после своего появления.
type RateLimiter struct {
	windows  map[string]*slidingWindow
	logger   *slog.Logger
	now      func() time.Time
	cleanupC chan struct{}
	stopOnce sync.Once
	rate     int
	window   time.Duration
	mu       sync.Mutex
}

// slidingWindow времена принятых запросов ключа, по возрастанию
type slidingWindow struct {
	hits []time.Time
}

// NewRateLimiter создает новый rate limiter
// rate - максимальное количество запросов в окне
// window - длина скользящего окна (например, 1 минута)
func NewRateLimiter(rate int, window time.Duration, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		windows:  make(map[string]*slidingWindow),
		rate:     rate,
		window:   window,
		logger:   logger,
		now:      time.Now,
		cleanupC: make(chan struct{}),
	}

	// Запускаем периодическую очистку неактивных ключей
	go rl.cleanup()

	return rl
}

// cleanup периодически удаляет неактивные окна для экономии памяти
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupIdle()
		case <-rl.cleanupC:
			return
		}
	}
}

// cleanupIdle удаляет ключи без запросов в текущем окне
func (rl *RateLimiter) cleanupIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window)
	for key, w := range rl.windows {
		w.evict(cutoff)
		if len(w.hits) == 0 {
			delete(rl.windows, key)
		}
	}
}

// Stop останавливает cleanup goroutine. Повторный вызов безопасен.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.cleanupC) })
}

// Allow проверяет, разрешен ли запрос для ключа (userId).
// Отклоненный запрос не занимает слот; retryAfter - когда освободится ближайший слот.
func (rl *RateLimiter) Allow(key string) (allowed bool, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, exists := rl.windows[key]
	if !exists {
		w = &slidingWindow{}
		rl.windows[key] = w
	}
	w.evict(now.Add(-rl.window))

	if len(w.hits) >= rl.rate {
		return false, w.hits[0].Add(rl.window).Sub(now)
	}

	w.hits = append(w.hits, now)
	return true, 0
}

// Remaining возвращает число свободных слотов ключа
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, exists := rl.windows[key]
	if !exists {
		return rl.rate
	}
	w.evict(rl.now().Add(-rl.window))
	return rl.rate - len(w.hits)
}

// evict отбрасывает запросы не позже cutoff
func (w *slidingWindow) evict(cutoff time.Time) {
	i := 0
	for i < len(w.hits) && !w.hits[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.hits = append(w.hits[:0], w.hits[i:]...)
	}
}

// IPRateLimitMiddleware грубая защита от злоупотреблений по IP перед
// пользовательским лимитом протокола. limit <= 0 отключает ограничение.
func IPRateLimitMiddleware(limit int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("IP rate limit exceeded",
				"remote_addr", r.RemoteAddr,
				"method", r.Method,
				"path", r.URL.Path,
			)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(api.ErrorResponse{
				Error: "rate limit exceeded, please try again later",
			})
		}),
	)
}
