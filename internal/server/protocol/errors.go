package protocol

import (
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/famsync/internal/models"
)

var (
	// ErrRateLimited запрос отклонен лимитом userId без обработки
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrUnknownStrategy стратегия разрешения конфликтов не поддерживается
	ErrUnknownStrategy = models.ErrUnknownStrategy
)

// RateLimitError несет время до освобождения слота
type RateLimitError struct {
	UserID     string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s for user %q, retry after %s", ErrRateLimited, e.UserID, e.RetryAfter)
}

// Is позволяет сравнивать через errors.Is(err, ErrRateLimited)
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
