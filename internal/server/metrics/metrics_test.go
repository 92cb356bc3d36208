package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Snapshot(t *testing.T) {
	c := New()

	empty := c.Snapshot()
	assert.Zero(t, empty.TotalSyncs)
	assert.Zero(t, empty.AverageSyncTime)

	c.ObserveSync(10*time.Millisecond, OutcomeSuccess, 0)
	c.ObserveSync(20*time.Millisecond, OutcomeConflict, 2)
	c.ObserveSync(30*time.Millisecond, OutcomeInvalid, 0)

	s := c.Snapshot()
	assert.Equal(t, int64(3), s.TotalSyncs)
	assert.Equal(t, int64(2), s.SuccessfulSyncs)
	assert.Equal(t, int64(1), s.FailedSyncs)
	assert.Equal(t, s.TotalSyncs, s.SuccessfulSyncs+s.FailedSyncs)
	assert.Equal(t, int64(2), s.TotalConflicts)
	assert.InDelta(t, 20.0, s.AverageSyncTime, 0.001)
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.ObserveSync(5*time.Millisecond, OutcomeSuccess, 0)
	c.ObserveRateLimited()
	c.ObserveBatch(3, 1)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics/prometheus", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `famsync_syncs_total{outcome="success"} 1`)
	assert.Contains(t, text, "famsync_rate_limited_total 1")
	assert.Contains(t, text, `famsync_batch_items_total{result="failed"} 1`)
	assert.Contains(t, text, `famsync_batch_items_total{result="ok"} 2`)
	assert.Contains(t, text, "famsync_sync_duration_seconds_count 1")
}

func TestCollector_IndependentRegistries(t *testing.T) {
	// два коллектора не конфликтуют при регистрации
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
