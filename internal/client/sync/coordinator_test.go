package sync

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpClient "github.com/iudanet/famsync/internal/client/api"
	"github.com/iudanet/famsync/internal/client/connectivity"
	"github.com/iudanet/famsync/internal/client/offline"
	"github.com/iudanet/famsync/internal/client/storage"
	"github.com/iudanet/famsync/internal/models"
	"github.com/iudanet/famsync/pkg/api"
)

const testDocument = "profile/u1"

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRecord(updatedAt int64, name string) *models.Record {
	return &models.Record{
		ID:        testDocument,
		Fields:    map[string]json.RawMessage{"name": json.RawMessage(`"` + name + `"`)},
		UpdatedAt: updatedAt,
	}
}

func okResponse(conflicts int) *api.SyncResponse {
	resp := &api.SyncResponse{
		Success:       true,
		Version:       2,
		Conflicts:     []api.Conflict{},
		Changes:       []api.Change{},
		MergedProfile: &api.Profile{ID: testDocument, UpdatedAt: 500, Version: 2},
	}
	for i := 0; i < conflicts; i++ {
		resp.Conflicts = append(resp.Conflicts, api.Conflict{Field: "name", Resolution: models.ResolutionRemote})
	}
	resp.HasConflicts = conflicts > 0
	return resp
}

func newMetadataMock() *storage.MetadataStorageMock {
	return &storage.MetadataStorageMock{
		GetSyncStatisticsFunc: func(ctx context.Context, documentID string) (models.SyncStatistics, error) {
			return models.SyncStatistics{}, nil
		},
		SaveSyncStatisticsFunc: func(ctx context.Context, documentID string, stats models.SyncStatistics) error {
			return nil
		},
		GetRecordFunc: func(ctx context.Context, id string) (*models.Record, error) {
			return nil, storage.ErrRecordNotFound
		},
		SaveRecordFunc: func(ctx context.Context, record *models.Record) error {
			return nil
		},
	}
}

type testEnv struct {
	coordinator *Coordinator
	engine      *offline.Engine
	monitor     *connectivity.Monitor
	client      *ProtocolClientMock
	metadata    *storage.MetadataStorageMock
}

func newTestCoordinator(t *testing.T, online, offlineMode bool, client *ProtocolClientMock) *testEnv {
	t.Helper()

	monitor := connectivity.NewMonitor(online, nil, 0, setupTestLogger())
	engine, err := offline.NewEngine(context.Background(), offline.Options{
		Storage:      offline.NewMemoryStorage(),
		Connectivity: monitor,
		Policy:       models.DefaultRetryPolicy(),
		Logger:       setupTestLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	metadata := newMetadataMock()
	coordinator, err := NewCoordinator(context.Background(), Options{
		Client:       client,
		Engine:       engine,
		Connectivity: monitor,
		Metadata:     metadata,
		Logger:       setupTestLogger(),
		DocumentID:   testDocument,
		UserID:       "u1",
		Strategy:     models.StrategyLastWriteWins,
		OfflineMode:  offlineMode,
		ErrorDisplay: time.Hour,
	})
	require.NoError(t, err)
	t.Cleanup(coordinator.Stop)

	return &testEnv{
		coordinator: coordinator,
		engine:      engine,
		monitor:     monitor,
		client:      client,
		metadata:    metadata,
	}
}

func TestNewCoordinator_Validation(t *testing.T) {
	_, err := NewCoordinator(context.Background(), Options{})
	assert.Error(t, err)

	env := newTestCoordinator(t, true, true, &ProtocolClientMock{})
	_, err = NewCoordinator(context.Background(), Options{
		Client:       env.client,
		Engine:       env.engine,
		Connectivity: env.monitor,
		DocumentID:   testDocument,
		Strategy:     "newest-wins",
	})
	assert.ErrorIs(t, err, models.ErrUnknownStrategy)
}

func TestNewCoordinator_RestoresState(t *testing.T) {
	monitor := connectivity.NewMonitor(false, nil, 0, setupTestLogger())
	engine, err := offline.NewEngine(context.Background(), offline.Options{
		Storage:      offline.NewMemoryStorage(),
		Connectivity: monitor,
		Policy:       models.DefaultRetryPolicy(),
	})
	require.NoError(t, err)
	defer engine.Close()

	metadata := newMetadataMock()
	metadata.GetSyncStatisticsFunc = func(ctx context.Context, documentID string) (models.SyncStatistics, error) {
		return models.SyncStatistics{TotalSyncs: 4, SuccessfulSyncs: 3, FailedSyncs: 1}, nil
	}
	metadata.GetRecordFunc = func(ctx context.Context, id string) (*models.Record, error) {
		return testRecord(100, "Ann"), nil
	}

	coordinator, err := NewCoordinator(context.Background(), Options{
		Client:       &ProtocolClientMock{},
		Engine:       engine,
		Connectivity: monitor,
		Metadata:     metadata,
		DocumentID:   testDocument,
	})
	require.NoError(t, err)

	snapshot := coordinator.Snapshot()
	assert.Equal(t, models.SyncStatusOffline, snapshot.Status)
	assert.Equal(t, int64(4), snapshot.Statistics.TotalSyncs)
	assert.Equal(t, testRecord(100, "Ann"), snapshot.Record)
}

func TestPerformSync_Success(t *testing.T) {
	client := &ProtocolClientMock{
		SyncFunc: func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline, "вызов протокола ограничен таймаутом")
			return okResponse(0), nil
		},
	}
	env := newTestCoordinator(t, true, true, client)

	err := env.coordinator.PerformSync(context.Background(), testRecord(100, "Ann"), "")
	require.NoError(t, err)

	require.Len(t, client.SyncCalls(), 1)
	req := client.SyncCalls()[0].Req
	assert.Equal(t, "u1", req.UserID)
	assert.Equal(t, string(models.StrategyLastWriteWins), req.Strategy)
	assert.Equal(t, testDocument, req.LocalProfile.ID)

	snapshot := env.coordinator.Snapshot()
	assert.Equal(t, models.SyncStatusSuccess, snapshot.Status)
	assert.Empty(t, snapshot.LastError)
	assert.Equal(t, int64(1), snapshot.Statistics.TotalSyncs)
	assert.Equal(t, int64(1), snapshot.Statistics.SuccessfulSyncs)
	assert.Equal(t, int64(1), snapshot.Statistics.SyncStreak)
	assert.Equal(t, int64(2), snapshot.Record.Version, "слитая версия становится локальной")

	calls := env.metadata.SaveSyncStatisticsCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, testDocument, calls[0].DocumentID)
	assert.Equal(t, int64(1), calls[0].Stats.TotalSyncs)
}

func TestPerformSync_ConflictsArePartialSuccess(t *testing.T) {
	client := &ProtocolClientMock{
		SyncFunc: func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
			return okResponse(2), nil
		},
	}
	env := newTestCoordinator(t, true, true, client)

	require.NoError(t, env.coordinator.PerformSync(context.Background(), testRecord(100, "Ann"), models.StrategyMerge))

	snapshot := env.coordinator.Snapshot()
	assert.Equal(t, models.SyncStatusSuccess, snapshot.Status)
	assert.Equal(t, 2, snapshot.ConflictCount)
	assert.Equal(t, int64(0), snapshot.Statistics.FailedSyncs)
	assert.Equal(t, string(models.StrategyMerge), client.SyncCalls()[0].Req.Strategy)
	assert.Equal(t, 0, env.engine.Len(), "конфликты не порождают корректирующих операций")
}

func TestPerformSync_NoDuplicateWhileSyncing(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	client := &ProtocolClientMock{
		SyncFunc: func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
			close(started)
			<-release
			return okResponse(0), nil
		},
	}
	env := newTestCoordinator(t, true, true, client)

	done := make(chan error)
	go func() {
		done <- env.coordinator.PerformSync(context.Background(), testRecord(100, "Ann"), "")
	}()
	<-started
	assert.Equal(t, models.SyncStatusSyncing, env.coordinator.Snapshot().Status)

	err := env.coordinator.PerformSync(context.Background(), testRecord(200, "Anna"), "")
	assert.ErrorIs(t, err, ErrAlreadySyncing)

	close(release)
	require.NoError(t, <-done)

	assert.Len(t, client.SyncCalls(), 1)
	stats := env.coordinator.Snapshot().Statistics
	assert.Equal(t, int64(1), stats.TotalSyncs)
	assert.Equal(t, 0, env.engine.Len())
}

func TestPerformSync_TransportFailureQueuesFallback(t *testing.T) {
	client := &ProtocolClientMock{
		SyncFunc: func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	env := newTestCoordinator(t, true, true, client)

	err := env.coordinator.PerformSync(context.Background(), testRecord(100, "Ann"), "")
	require.Error(t, err)

	snapshot := env.coordinator.Snapshot()
	assert.Equal(t, models.SyncStatusError, snapshot.Status)
	assert.Contains(t, snapshot.LastError, "connection refused")
	assert.Equal(t, int64(1), snapshot.Statistics.FailedSyncs)
	assert.Equal(t, int64(0), snapshot.Statistics.SyncStreak)

	require.Len(t, snapshot.PendingOperations, 1)
	op := snapshot.PendingOperations[0]
	assert.Equal(t, models.OperationSync, op.Type)
	assert.Equal(t, testDocument, op.Metadata[MetaDocumentID])

	var queued api.SyncRequest
	require.NoError(t, json.Unmarshal(op.Payload, &queued))
	assert.Equal(t, "u1", queued.UserID)
	assert.JSONEq(t, `"Ann"`, string(queued.LocalProfile.Fields["name"]))
}

func TestPerformSync_ValidationFailureNotQueued(t *testing.T) {
	client := &ProtocolClientMock{
		SyncFunc: func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
			return nil, &httpClient.StatusError{StatusCode: http.StatusBadRequest, Message: "validation failed"}
		},
	}
	env := newTestCoordinator(t, true, true, client)

	err := env.coordinator.PerformSync(context.Background(), testRecord(100, "Ann"), "")
	require.Error(t, err)

	assert.Equal(t, models.SyncStatusError, env.coordinator.Snapshot().Status)
	assert.Equal(t, 0, env.engine.Len())
}

func TestPerformSync_OfflineWithOfflineMode(t *testing.T) {
	client := &ProtocolClientMock{}
	env := newTestCoordinator(t, false, true, client)

	err := env.coordinator.PerformSync(context.Background(), testRecord(100, "Ann"), "")
	require.NoError(t, err)

	assert.Empty(t, client.SyncCalls())
	snapshot := env.coordinator.Snapshot()
	assert.Equal(t, models.SyncStatusOffline, snapshot.Status)
	assert.Len(t, snapshot.PendingOperations, 1)
	assert.Zero(t, snapshot.Statistics.TotalSyncs)
	require.Len(t, env.metadata.SaveRecordCalls(), 1)
}

func TestPerformSync_OfflineWithoutOfflineMode(t *testing.T) {
	client := &ProtocolClientMock{}
	env := newTestCoordinator(t, false, false, client)

	err := env.coordinator.PerformSync(context.Background(), testRecord(100, "Ann"), "")
	assert.ErrorIs(t, err, ErrOffline)

	snapshot := env.coordinator.Snapshot()
	assert.Equal(t, models.SyncStatusOffline, snapshot.Status)
	assert.Equal(t, ErrOffline.Error(), snapshot.LastError)
	assert.Equal(t, 0, env.engine.Len())
	assert.Empty(t, client.SyncCalls())
}

func TestPerformSync_Timeout(t *testing.T) {
	client := &ProtocolClientMock{
		SyncFunc: func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	env := newTestCoordinator(t, true, false, client)
	env.coordinator.syncTimeout = 20 * time.Millisecond

	err := env.coordinator.PerformSync(context.Background(), testRecord(100, "Ann"), "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, models.SyncStatusError, env.coordinator.Snapshot().Status)
}

func TestPerformSync_UnknownStrategy(t *testing.T) {
	env := newTestCoordinator(t, true, true, &ProtocolClientMock{})

	err := env.coordinator.PerformSync(context.Background(), testRecord(100, "Ann"), "first-write-wins")
	assert.ErrorIs(t, err, models.ErrUnknownStrategy)
	assert.Equal(t, models.SyncStatusIdle, env.coordinator.Snapshot().Status)
}

func TestPerformSync_NoLocalRecord(t *testing.T) {
	client := &ProtocolClientMock{}
	env := newTestCoordinator(t, true, true, client)

	err := env.coordinator.PerformSync(context.Background(), nil, "")
	require.ErrorIs(t, err, ErrNoRecord)
	assert.Contains(t, err.Error(), testDocument)
	assert.Empty(t, client.SyncCalls())
	assert.Equal(t, models.SyncStatusIdle, env.coordinator.Snapshot().Status)
}

func TestStatisticsInvariant(t *testing.T) {
	outcomes := []bool{true, true, false, true, false, false, true}
	i := 0
	client := &ProtocolClientMock{
		SyncFunc: func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
			ok := outcomes[i]
			i++
			if ok {
				return okResponse(0), nil
			}
			return &api.SyncResponse{Success: false}, nil
		},
	}
	env := newTestCoordinator(t, true, false, client)

	for range outcomes {
		_ = env.coordinator.PerformSync(context.Background(), testRecord(100, "Ann"), "")
		stats := env.coordinator.Snapshot().Statistics
		assert.Equal(t, stats.TotalSyncs, stats.SuccessfulSyncs+stats.FailedSyncs)
	}

	stats := env.coordinator.Snapshot().Statistics
	assert.Equal(t, int64(7), stats.TotalSyncs)
	assert.Equal(t, int64(4), stats.SuccessfulSyncs)
	assert.Equal(t, int64(3), stats.FailedSyncs)
	assert.Equal(t, int64(1), stats.SyncStreak)
	assert.Equal(t, 0, env.engine.Len(), "ответ success=false не является транспортной ошибкой")
}

func TestSuccessRevertsToIdle(t *testing.T) {
	client := &ProtocolClientMock{
		SyncFunc: func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
			return okResponse(0), nil
		},
	}
	env := newTestCoordinator(t, true, true, client)
	env.coordinator.errorDisplay = 10 * time.Millisecond

	require.NoError(t, env.coordinator.PerformSync(context.Background(), testRecord(100, "Ann"), ""))
	require.Eventually(t, func() bool {
		return env.coordinator.Snapshot().Status == models.SyncStatusIdle
	}, time.Second, 5*time.Millisecond)
}

func TestQueueAndCancelOperation(t *testing.T) {
	env := newTestCoordinator(t, false, true, &ProtocolClientMock{})

	var snapshots []Snapshot
	env.coordinator.Subscribe(func(s Snapshot) { snapshots = append(snapshots, s) })

	op := env.coordinator.QueueOperation(models.OperationUpdate, testDocument, testRecord(100, "Ann"))
	assert.Len(t, env.coordinator.Snapshot().PendingOperations, 1)

	assert.True(t, env.coordinator.CancelOperation(op.ID))
	assert.False(t, env.coordinator.CancelOperation(op.ID))
	assert.Empty(t, env.coordinator.Snapshot().PendingOperations)
	assert.Equal(t, 0, env.engine.Len())

	require.Len(t, snapshots, 2)
	assert.Len(t, snapshots[0].PendingOperations, 1)
	assert.Empty(t, snapshots[1].PendingOperations)
}

func TestResetSync(t *testing.T) {
	client := &ProtocolClientMock{
		SyncFunc: func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
			return nil, errors.New("connection reset")
		},
	}
	env := newTestCoordinator(t, true, true, client)
	_ = env.coordinator.PerformSync(context.Background(), testRecord(100, "Ann"), "")
	require.Equal(t, models.SyncStatusError, env.coordinator.Snapshot().Status)

	env.coordinator.ResetSync()

	snapshot := env.coordinator.Snapshot()
	assert.Equal(t, models.SyncStatusIdle, snapshot.Status)
	assert.Empty(t, snapshot.LastError)
	assert.Zero(t, snapshot.ConflictCount)
	assert.Empty(t, snapshot.PendingOperations)
	assert.Equal(t, 1, env.engine.Len(), "очередь не меняется")
}

func TestApply(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		payload       json.RawMessage
		wantPermanent bool
		wantErr       bool
	}{
		{name: "delivered"},
		{name: "transport error retried", err: errors.New("timeout"), wantErr: true},
		{
			name:          "validation error is terminal",
			err:           &httpClient.StatusError{StatusCode: http.StatusBadRequest},
			wantErr:       true,
			wantPermanent: true,
		},
		{
			name:          "rate limit is terminal for this layer",
			err:           &httpClient.StatusError{StatusCode: http.StatusTooManyRequests},
			wantErr:       true,
			wantPermanent: true,
		},
		{
			name:          "payload without sync request",
			payload:       json.RawMessage(`{"unexpected":true}`),
			wantErr:       true,
			wantPermanent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &ProtocolClientMock{
				SyncFunc: func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return okResponse(1), nil
				},
			}
			env := newTestCoordinator(t, true, true, client)

			payload := tt.payload
			if payload == nil {
				data, err := json.Marshal(api.SyncRequest{UserID: "u1", LocalProfile: testRecord(100, "Ann").ToAPI()})
				require.NoError(t, err)
				payload = data
			}
			op := models.PendingOperation{ID: "op-1", Type: models.OperationSync, Payload: payload, MaxAttempts: 5}

			err := env.coordinator.Apply(context.Background(), op)
			if !tt.wantErr {
				require.NoError(t, err)
				require.Len(t, client.SyncCalls(), 1)
				assert.Equal(t, "op-1", client.SyncCalls()[0].Req.OperationID, "id операции передается как ключ идемпотентности")
				assert.Equal(t, 1, env.coordinator.Snapshot().ConflictCount)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantPermanent, offline.IsPermanent(err))
		})
	}
}

func TestReconnectTriggersSyncAndDrain(t *testing.T) {
	var mu gosync.Mutex
	var operationIDs []string
	client := &ProtocolClientMock{
		SyncFunc: func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
			mu.Lock()
			operationIDs = append(operationIDs, req.OperationID)
			mu.Unlock()
			return okResponse(0), nil
		},
	}
	env := newTestCoordinator(t, false, true, client)
	env.coordinator.Start(context.Background())

	require.NoError(t, env.coordinator.PerformSync(context.Background(), testRecord(100, "Ann"), ""))
	require.Equal(t, 1, env.engine.Len())

	env.monitor.Set(true)

	require.Eventually(t, func() bool {
		return env.engine.Len() == 0 && len(client.SyncCalls()) >= 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	// один вызов - синхронизация после восстановления сети, другой - доставка из очереди
	assert.Contains(t, operationIDs, "")
	assert.Len(t, operationIDs, 2)

	require.Eventually(t, func() bool {
		s := env.coordinator.Snapshot()
		return s.Status == models.SyncStatusSuccess && len(s.PendingOperations) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestGoesOfflineWhileStarted(t *testing.T) {
	env := newTestCoordinator(t, true, true, &ProtocolClientMock{})
	env.coordinator.Start(context.Background())
	env.coordinator.Start(context.Background())

	env.monitor.Set(false)
	assert.Equal(t, models.SyncStatusOffline, env.coordinator.Snapshot().Status)

	env.coordinator.Stop()
	env.monitor.Set(true)
	assert.Equal(t, models.SyncStatusOffline, env.coordinator.Snapshot().Status, "после Stop события не обрабатываются")
}

func TestConnectivityCallbackAfterStop(t *testing.T) {
	client := &ProtocolClientMock{
		SyncFunc: func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
			return okResponse(0), nil
		},
	}
	env := newTestCoordinator(t, false, true, client)
	env.coordinator.Start(context.Background())
	require.NoError(t, env.coordinator.PerformSync(context.Background(), testRecord(100, "Ann"), ""))
	env.coordinator.Stop()

	// монитор мог скопировать список слушателей до отписки
	env.coordinator.onConnectivityChange(context.Background(), true)

	// вызов из предыдущего запуска с отмененным контекстом
	env.coordinator.Start(context.Background())
	stale, cancel := context.WithCancel(context.Background())
	cancel()
	env.coordinator.onConnectivityChange(stale, true)
	env.coordinator.Stop()

	snapshot := env.coordinator.Snapshot()
	assert.Empty(t, client.SyncCalls())
	assert.Equal(t, models.SyncStatusOffline, snapshot.Status)
	assert.Zero(t, snapshot.Statistics.FailedSyncs)
}
