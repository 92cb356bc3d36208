package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/famsync/pkg/api"
)

func staticToken(token string) TokenSource {
	return func(ctx context.Context) (string, error) { return token, nil }
}

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)

	client = NewClient("http://localhost:8080", WithTimeout(5*time.Second))
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
}

func TestClient_Sync(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantConflicts int
	}{
		{name: "clean success", status: http.StatusOK},
		{name: "multi-status with conflicts", status: http.StatusMultiStatus, wantConflicts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/sync", r.URL.Path)
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var req api.SyncRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "u1", req.UserID)
				assert.Equal(t, "last-write-wins", req.Strategy)

				resp := api.SyncResponse{Success: true, Version: 4, Conflicts: []api.Conflict{}}
				for i := 0; i < tt.wantConflicts; i++ {
					resp.Conflicts = append(resp.Conflicts, api.Conflict{Field: "name", Resolution: "remote"})
				}
				resp.HasConflicts = len(resp.Conflicts) > 0
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(resp)
			}))
			defer server.Close()

			client := NewClient(server.URL, WithTokenSource(staticToken("secret")))
			resp, err := client.Sync(context.Background(), api.SyncRequest{
				UserID:       "u1",
				LocalProfile: &api.Profile{ID: "profile/u1"},
				Strategy:     "last-write-wins",
			})
			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.Equal(t, int64(4), resp.Version)
			assert.Len(t, resp.Conflicts, tt.wantConflicts)
		})
	}
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		body          any
		wantMessage   string
		status        int
		wantRetryable bool
	}{
		{
			name:        "validation error",
			status:      http.StatusBadRequest,
			body:        api.ErrorResponse{Error: "validation failed", Details: []string{"userId is required"}},
			wantMessage: "userId is required",
		},
		{
			name:        "rate limited",
			status:      http.StatusTooManyRequests,
			body:        api.ErrorResponse{Error: "rate limit exceeded"},
			wantMessage: "rate limit exceeded",
		},
		{
			name:        "forbidden",
			status:      http.StatusForbidden,
			body:        api.ErrorResponse{Error: "forbidden"},
			wantMessage: "forbidden",
		},
		{
			name:          "internal error",
			status:        http.StatusInternalServerError,
			body:          "boom",
			wantMessage:   "boom",
			wantRetryable: true,
		},
		{
			name:          "bad gateway",
			status:        http.StatusBadGateway,
			body:          api.ErrorResponse{Error: "upstream"},
			wantMessage:   "upstream",
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if s, ok := tt.body.(string); ok {
					_, _ = w.Write([]byte(s))
					return
				}
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.Sync(context.Background(), api.SyncRequest{UserID: "u1"})
			require.Error(t, err)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Contains(t, err.Error(), tt.wantMessage)
			assert.Equal(t, tt.wantRetryable, IsRetryable(err))
			assert.Equal(t, tt.status == http.StatusTooManyRequests, IsRateLimited(err))
		})
	}
}

func TestClient_NetworkErrorIsRetryable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", WithTimeout(100*time.Millisecond))

	_, err := client.Health(context.Background())
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.False(t, IsRetryable(nil))
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	for i := 0; i < 5; i++ {
		_, err := client.Health(context.Background())
		require.Error(t, err)
	}

	_, err := client.Health(context.Background())
	require.Error(t, err)
	assert.True(t, IsRetryable(err), "открытый breaker - временная ошибка")
	assert.Equal(t, int32(5), hits.Load(), "при открытом breaker запрос не отправляется")
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	for i := 0; i < 8; i++ {
		_, _ = client.Sync(context.Background(), api.SyncRequest{})
	}
	assert.Equal(t, int32(8), hits.Load())
}

func TestClient_OtherEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/sync":
			assert.Equal(t, "u 1", r.URL.Query().Get("userId"))
			_ = json.NewEncoder(w).Encode(api.SyncStatusResponse{UserID: "u 1", Records: 2, LatestVersion: 7})
		case r.Method == http.MethodPut && r.URL.Path == "/sync":
			var req api.OperationStatusRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			_ = json.NewEncoder(w).Encode(api.OperationStatusResponse{OperationID: req.OperationID, Status: req.Status})
		case r.URL.Path == "/sync/batch":
			var req api.BatchSyncRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			_ = json.NewEncoder(w).Encode(api.BatchSyncResponse{TotalProcessed: len(req.Profiles)})
		case r.URL.Path == "/health":
			_ = json.NewEncoder(w).Encode(api.HealthResponse{Status: "healthy", Version: "1.0.0"})
		case r.URL.Path == "/metrics":
			_ = json.NewEncoder(w).Encode(api.MetricsResponse{TotalSyncs: 3, SuccessfulSyncs: 2, FailedSyncs: 1})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	client := NewClient(server.URL)

	status, err := client.GetStatus(ctx, "u 1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), status.LatestVersion)

	op, err := client.UpdateOperation(ctx, api.OperationStatusRequest{UserID: "u1", OperationID: "op-1", Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "op-1", op.OperationID)

	batch, err := client.SyncBatch(ctx, api.BatchSyncRequest{UserID: "u1", Profiles: make([]api.SyncRequest, 3)})
	require.NoError(t, err)
	assert.Equal(t, 3, batch.TotalProcessed)

	health, err := client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)

	metrics, err := client.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, metrics.TotalSyncs, metrics.SuccessfulSyncs+metrics.FailedSyncs)
}

func TestClient_TokenSourceError(t *testing.T) {
	client := NewClient("http://localhost:1", WithTokenSource(func(ctx context.Context) (string, error) {
		return "", errors.New("no token stored")
	}))

	_, err := client.Sync(context.Background(), api.SyncRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no token stored")
}
