package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientsync "github.com/iudanet/famsync/internal/client/sync"
	"github.com/iudanet/famsync/internal/models"
	"github.com/iudanet/famsync/pkg/api"
)

func statusCoordinator() *CoordinatorMock {
	return &CoordinatorMock{
		SnapshotFunc: func() clientsync.Snapshot {
			return clientsync.Snapshot{
				Status:    models.SyncStatusError,
				LastError: "sync failed: timeout",
				Record: &models.Record{
					ID:        "profile",
					Version:   4,
					UpdatedAt: testNow.UnixMilli(),
					Fields: map[string]json.RawMessage{
						"name": json.RawMessage(`"Ann"`),
						"city": json.RawMessage(`"Oslo"`),
					},
				},
				ConflictCount: 1,
				Statistics: models.SyncStatistics{
					TotalSyncs:      5,
					SuccessfulSyncs: 4,
					FailedSyncs:     1,
					AverageSyncTime: 120 * time.Millisecond,
					LastSyncTime:    testNow,
				},
			}
		},
	}
}

func TestCli_runStatus_Offline(t *testing.T) {
	queue := &QueueMock{
		StateFunc: func() models.QueueState {
			return models.QueueState{Operations: []models.PendingOperation{{ID: "op-1"}}}
		},
	}
	server := &ServerClientMock{}
	c, out := newTestCli(Options{
		Coordinator: statusCoordinator(),
		Queue:       queue,
		Server:      server,
		UserID:      "user-1",
	})

	require.NoError(t, c.Run(context.Background(), "status", nil))

	output := out.String()
	assert.Contains(t, output, "Document:  profile")
	assert.Contains(t, output, "User:      user-1")
	assert.Contains(t, output, "Status:    error")
	assert.Contains(t, output, "Error:     sync failed: timeout")
	assert.Contains(t, output, "Version:   4")
	assert.Contains(t, output, "Updated:   2026-03-01T12:00:00Z")
	assert.Contains(t, output, "Fields:    city, name")
	assert.Contains(t, output, "Conflicts: 1")
	assert.Contains(t, output, "Total syncs:   5")
	assert.Contains(t, output, "Average time:  120ms")
	assert.Contains(t, output, "Pending:   1")
	assert.Contains(t, output, "Network:   offline")
	assert.NotContains(t, output, "=== Server ===")

	// без сети сервер не опрашивается
	assert.Empty(t, server.HealthCalls())
	assert.Empty(t, server.GetStatusCalls())
}

func TestCli_runStatus_Server(t *testing.T) {
	queue := &QueueMock{
		StateFunc: func() models.QueueState { return models.QueueState{IsOnline: true} },
	}
	lastSync := testNow.Add(-time.Minute)
	server := &ServerClientMock{
		HealthFunc: func(ctx context.Context) (*api.HealthResponse, error) {
			return &api.HealthResponse{Status: "healthy", Version: "1.2.0"}, nil
		},
		GetStatusFunc: func(ctx context.Context, userID string) (*api.SyncStatusResponse, error) {
			return &api.SyncStatusResponse{UserID: userID, Records: 3, LatestVersion: 9, LastSyncTime: &lastSync}, nil
		},
	}
	c, out := newTestCli(Options{
		Coordinator: statusCoordinator(),
		Queue:       queue,
		Server:      server,
		UserID:      "user-1",
	})

	require.NoError(t, c.Run(context.Background(), "status", nil))

	output := out.String()
	assert.Contains(t, output, "Network:   online")
	assert.Contains(t, output, "Health:         healthy (1.2.0)")
	assert.Contains(t, output, "Records:        3")
	assert.Contains(t, output, "Latest version: 9")
	assert.Contains(t, output, "Last sync:      2026-03-01T11:59:00Z")

	require.Len(t, server.GetStatusCalls(), 1)
	assert.Equal(t, "user-1", server.GetStatusCalls()[0].UserID)
}

func TestCli_runStatus_ServerUnavailable(t *testing.T) {
	queue := &QueueMock{
		StateFunc: func() models.QueueState { return models.QueueState{IsOnline: true} },
	}
	server := &ServerClientMock{
		HealthFunc: func(ctx context.Context) (*api.HealthResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	c, out := newTestCli(Options{
		Coordinator: statusCoordinator(),
		Queue:       queue,
		Server:      server,
		UserID:      "user-1",
	})

	require.NoError(t, c.Run(context.Background(), "status", nil))
	assert.Contains(t, out.String(), "Server: unavailable (connection refused)")
	assert.Empty(t, server.GetStatusCalls())
}

func TestCli_runStatus_NoRecord(t *testing.T) {
	coordinator := &CoordinatorMock{
		SnapshotFunc: func() clientsync.Snapshot {
			return clientsync.Snapshot{Status: models.SyncStatusIdle}
		},
	}
	queue := &QueueMock{
		StateFunc: func() models.QueueState { return models.QueueState{IsOnline: true, IsPaused: true} },
	}
	server := &ServerClientMock{
		HealthFunc: func(ctx context.Context) (*api.HealthResponse, error) {
			return &api.HealthResponse{Status: "healthy", Version: "dev"}, nil
		},
	}
	c, out := newTestCli(Options{Coordinator: coordinator, Queue: queue, Server: server})

	require.NoError(t, c.Run(context.Background(), "status", nil))

	output := out.String()
	assert.Contains(t, output, "Record:    none")
	assert.Contains(t, output, "Last sync:     never")
	assert.Contains(t, output, "Paused:    yes")
	assert.NotContains(t, output, "User:")
	// без userId статус сервера не запрашивается
	assert.Empty(t, server.GetStatusCalls())
	assert.NotContains(t, output, "Records:")
}
