package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestClock_Tick_PhysicalTime(t *testing.T) {
	now := base
	c := New(func() time.Time { return now })

	assert.Equal(t, base.UnixMilli(), c.Tick())

	now = now.Add(time.Second)
	assert.Equal(t, now.UnixMilli(), c.Tick())
	assert.Equal(t, now.UnixMilli(), c.Last())
}

func TestClock_Tick_Monotonicity(t *testing.T) {
	c := New(fixedNow(base))

	var previous int64
	for i := 0; i < 100; i++ {
		current := c.Tick()
		assert.Greater(t, current, previous, "Tick should always increase")
		previous = current
	}
	assert.Equal(t, base.UnixMilli()+99, previous)
}

func TestClock_Observe(t *testing.T) {
	tests := []struct {
		name     string
		observed int64
		want     int64
	}{
		{name: "remote ahead of local clock", observed: base.UnixMilli() + 5000, want: base.UnixMilli() + 5001},
		{name: "remote behind local clock", observed: base.UnixMilli() - 5000, want: base.UnixMilli()},
		{name: "remote equal", observed: base.UnixMilli(), want: base.UnixMilli() + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(fixedNow(base))
			c.Observe(tt.observed)
			assert.Equal(t, tt.want, c.Tick())
		})
	}
}

func TestClock_Observe_NeverMovesBack(t *testing.T) {
	c := New(fixedNow(base))
	c.Observe(base.UnixMilli() + 100)
	c.Observe(1)
	assert.Equal(t, base.UnixMilli()+100, c.Last())
}

func TestClock_Concurrent(t *testing.T) {
	c := New(fixedNow(base))

	const goroutines = 10
	const ticks = 100

	var mu sync.Mutex
	seen := make(map[int64]bool, goroutines*ticks)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < ticks; j++ {
				ts := c.Tick()
				mu.Lock()
				seen[ts] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, goroutines*ticks, "every tick must be unique")
	assert.Equal(t, base.UnixMilli()+goroutines*ticks-1, c.Last())
}

func TestNew_DefaultNow(t *testing.T) {
	c := New(nil)
	before := time.Now().UnixMilli()
	ts := c.Tick()
	assert.GreaterOrEqual(t, ts, before)
}
