package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/famsync/internal/client/offline"
	clientsync "github.com/iudanet/famsync/internal/client/sync"
	"github.com/iudanet/famsync/internal/models"
)

func emptySnapshot() clientsync.Snapshot {
	return clientsync.Snapshot{Status: models.SyncStatusIdle}
}

func TestCli_runQueue(t *testing.T) {
	coordinator := &CoordinatorMock{
		QueueOperationFunc: func(opType models.OperationType, resource string, record *models.Record) models.PendingOperation {
			return models.PendingOperation{ID: "op-1", Type: opType, Resource: resource}
		},
		SnapshotFunc: emptySnapshot,
	}
	c, out := newTestCli(Options{Coordinator: coordinator})

	err := c.Run(context.Background(), "queue", []string{"update", "profile", `{"id":"profile","fields":{"name":"Ann"}}`})
	require.NoError(t, err)

	calls := coordinator.QueueOperationCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.OperationUpdate, calls[0].OpType)
	assert.Equal(t, "profile", calls[0].Resource)
	assert.Equal(t, "profile", calls[0].Record.ID)
	assert.Equal(t, json.RawMessage(`"Ann"`), calls[0].Record.Fields["name"])
	// updatedAt подставляется текущим временем
	assert.Equal(t, testNow.UnixMilli(), calls[0].Record.UpdatedAt)

	assert.Contains(t, out.String(), "Queued update profile (id: op-1)")
}

func TestCli_runQueue_Timestamps(t *testing.T) {
	known := testNow.UnixMilli() + 5000
	coordinator := &CoordinatorMock{
		QueueOperationFunc: func(opType models.OperationType, resource string, record *models.Record) models.PendingOperation {
			return models.PendingOperation{ID: "op", Type: opType, Resource: resource}
		},
		SnapshotFunc: func() clientsync.Snapshot {
			return clientsync.Snapshot{Record: &models.Record{ID: "profile", UpdatedAt: known}}
		},
	}
	c, _ := newTestCli(Options{Coordinator: coordinator})
	ctx := context.Background()

	// известная версия новее системных часов: правка все равно новее
	require.NoError(t, c.Run(ctx, "queue", []string{"update", "profile", `{"id":"profile"}`}))
	require.NoError(t, c.Run(ctx, "queue", []string{"update", "profile", `{"id":"profile"}`}))
	// явный updatedAt сохраняется
	require.NoError(t, c.Run(ctx, "queue", []string{"update", "profile", `{"id":"profile","updatedAt":42}`}))

	calls := coordinator.QueueOperationCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, known+1, calls[0].Record.UpdatedAt)
	assert.Equal(t, known+2, calls[1].Record.UpdatedAt)
	assert.Equal(t, int64(42), calls[2].Record.UpdatedAt)
}

func TestCli_runQueue_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing args", args: []string{"update", "profile"}},
		{name: "unknown type", args: []string{"upsert", "profile", `{"id":"p"}`}},
		{name: "empty resource", args: []string{"update", " ", `{"id":"p"}`}},
		{name: "broken json", args: []string{"update", "profile", `{"id":`}},
		{name: "unknown field", args: []string{"update", "profile", `{"id":"p","name":"Ann"}`}},
		{name: "missing id", args: []string{"update", "profile", `{"fields":{}}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coordinator := &CoordinatorMock{SnapshotFunc: emptySnapshot}
			c, _ := newTestCli(Options{Coordinator: coordinator})

			assert.Error(t, c.Run(context.Background(), "queue", tt.args))
			assert.Empty(t, coordinator.QueueOperationCalls())
		})
	}
}

func TestCli_runList(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		queue := &QueueMock{
			StateFunc: func() models.QueueState { return models.QueueState{} },
		}
		c, out := newTestCli(Options{Queue: queue})

		require.NoError(t, c.Run(context.Background(), "list", nil))
		assert.Contains(t, out.String(), "Queue is empty")
	})

	t.Run("operations", func(t *testing.T) {
		retryAt := testNow.Add(2 * time.Second)
		queue := &QueueMock{
			StateFunc: func() models.QueueState {
				return models.QueueState{Operations: []models.PendingOperation{
					{ID: "op-1", Type: models.OperationSync, Resource: "profile", EnqueuedAt: testNow, MaxAttempts: 3},
					{
						ID: "op-2", Type: models.OperationUpdate, Resource: "profile", EnqueuedAt: testNow,
						Attempts: 1, MaxAttempts: 3, LastError: "connection refused", RetryNotBefore: &retryAt,
					},
				}}
			},
		}
		c, out := newTestCli(Options{Queue: queue})

		require.NoError(t, c.Run(context.Background(), "list", nil))
		output := out.String()
		assert.Contains(t, output, "Pending operations: 2")
		assert.Contains(t, output, "op-1")
		assert.Contains(t, output, "attempts 1/3")
		assert.Contains(t, output, "last error: connection refused")
		assert.Contains(t, output, "next retry: 2026-03-01 12:00:02")
	})
}

func TestCli_runCancel(t *testing.T) {
	coordinator := &CoordinatorMock{
		CancelOperationFunc: func(id string) bool { return id == "op-1" },
	}
	c, out := newTestCli(Options{Coordinator: coordinator})
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "cancel", []string{"op-1"}))
	assert.Contains(t, out.String(), "Operation op-1 cancelled")

	err := c.Run(ctx, "cancel", []string{"op-2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op-2")

	assert.Error(t, c.Run(ctx, "cancel", nil))
	assert.Len(t, coordinator.CancelOperationCalls(), 2)
}

func TestCli_runDrain(t *testing.T) {
	ops := []models.PendingOperation{
		{ID: "op-1", Type: models.OperationSync, Resource: "profile"},
		{ID: "op-2", Type: models.OperationSync, Resource: "profile"},
	}

	t.Run("delivers through coordinator", func(t *testing.T) {
		remaining := ops
		queue := &QueueMock{
			StateFunc: func() models.QueueState { return models.QueueState{Operations: remaining} },
			ProcessQueueFunc: func(ctx context.Context, apply offline.ApplyFunc) models.ReconciliationResult {
				result := models.ReconciliationResult{Success: true}
				for _, op := range remaining {
					require.NoError(t, apply(ctx, op))
					result.ProcessedCount++
					result.SyncedCount++
				}
				remaining = nil
				return result
			},
		}
		coordinator := &CoordinatorMock{
			ApplyFunc: func(ctx context.Context, op models.PendingOperation) error { return nil },
		}
		c, out := newTestCli(Options{Queue: queue, Coordinator: coordinator})

		require.NoError(t, c.Run(context.Background(), "drain", nil))
		assert.Len(t, coordinator.ApplyCalls(), 2)
		assert.Contains(t, out.String(), "Synced:    2")
		assert.NotContains(t, out.String(), "still pending")
	})

	t.Run("reports failures", func(t *testing.T) {
		queue := &QueueMock{
			StateFunc: func() models.QueueState { return models.QueueState{Operations: ops[:1]} },
			ProcessQueueFunc: func(ctx context.Context, apply offline.ApplyFunc) models.ReconciliationResult {
				err := apply(ctx, ops[0])
				return models.ReconciliationResult{
					ProcessedCount: 1,
					FailedCount:    1,
					Errors: []models.OperationError{
						{OperationID: "op-1", Resource: "profile", Message: err.Error()},
					},
				}
			},
		}
		coordinator := &CoordinatorMock{
			ApplyFunc: func(ctx context.Context, op models.PendingOperation) error {
				return errors.New("server unavailable")
			},
		}
		c, out := newTestCli(Options{Queue: queue, Coordinator: coordinator})

		require.Error(t, c.Run(context.Background(), "drain", nil))
		output := out.String()
		assert.Contains(t, output, "Failed:    1")
		assert.Contains(t, output, "operation op-1 (profile): server unavailable")
		assert.Contains(t, output, "1 operation(s) still pending")
	})

	t.Run("empty queue", func(t *testing.T) {
		queue := &QueueMock{
			StateFunc: func() models.QueueState { return models.QueueState{} },
		}
		c, out := newTestCli(Options{Queue: queue})

		require.NoError(t, c.Run(context.Background(), "drain", nil))
		assert.Empty(t, queue.ProcessQueueCalls())
		assert.Contains(t, out.String(), "nothing to deliver")
	})
}
