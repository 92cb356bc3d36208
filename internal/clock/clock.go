// Package clock выдает метки времени локальных изменений для last-write-wins
package clock

import (
	"sync"
	"time"
)

// Clock гибридные часы в миллисекундах: метка не меньше физического времени
// и строго больше любой ранее выданной или наблюдаемой метки.
// Локальная правка получает метку новее последней известной версии записи
// даже при отставании системных часов.
type Clock struct {
	now  func() time.Time
	last int64
	mu   sync.Mutex
}

// New создает часы. now == nil означает time.Now.
func New(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Tick возвращает метку для нового локального изменения
func (c *Clock) Tick() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := c.now().UnixMilli()
	if ts <= c.last {
		ts = c.last + 1
	}
	c.last = ts
	return ts
}

// Observe учитывает метку, полученную извне (сохраненная запись, ответ сервера)
func (c *Clock) Observe(ts int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ts > c.last {
		c.last = ts
	}
}

// Last возвращает последнюю выданную или наблюдаемую метку
func (c *Clock) Last() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
