package offline

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/iudanet/famsync/internal/models"
)

// Backoff вычисляет задержку перед повторной попыткой номер attempts:
//
//	delay = min(initialDelay * multiplier^attempts, maxDelay)
//	delay += delay * jitterFactor * rnd()
//
// Джиттер только положительный, поэтому delay <= maxDelay * (1 + jitterFactor).
// rnd должен возвращать значение из [0, 1); nil означает math/rand/v2.
func Backoff(policy models.RetryPolicy, attempts int, rnd func() float64) time.Duration {
	if attempts < 0 {
		attempts = 0
	}

	delay := float64(policy.InitialDelay) * math.Pow(policy.BackoffMultiplier, float64(attempts))
	if math.IsInf(delay, 0) || math.IsNaN(delay) || delay > float64(policy.MaxDelay) {
		delay = float64(policy.MaxDelay)
	}

	if policy.JitterFactor > 0 {
		if rnd == nil {
			rnd = rand.Float64
		}
		r := rnd()
		// значения вне [0, 1) от внешнего источника обрезаются
		if r < 0 {
			r = 0
		} else if r >= 1 {
			r = math.Nextafter(1, 0)
		}
		delay += delay * policy.JitterFactor * r
	}

	return time.Duration(delay)
}
