package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/iudanet/famsync/pkg/api"
)

// DefaultTimeout таймаут HTTP запроса по умолчанию
const DefaultTimeout = 30 * time.Second

// TokenSource возвращает bearer токен для запроса
type TokenSource func(ctx context.Context) (string, error)

// Option настраивает Client
type Option func(*Client)

// WithTokenSource задает источник bearer токена
func WithTokenSource(source TokenSource) Option {
	return func(c *Client) {
		c.token = source
	}
}

// WithTimeout задает таймаут HTTP клиента
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger задает логгер
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// rawResponse успешный ответ сервера
type rawResponse struct {
	body   []byte
	status int
}

// Client представляет HTTP клиент протокола синхронизации
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*rawResponse]
	token      TokenSource
	logger     *slog.Logger
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[*rawResponse](gobreaker.Settings{
		Name:        "sync-protocol",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// ответы 4xx означают, что сервер доступен
		IsSuccessful: func(err error) bool {
			return err == nil || !IsRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Info("Circuit breaker state transition",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
	})

	return c
}

// Sync отправляет одну запись на синхронизацию.
// 207 (синхронизация с конфликтами) считается успехом.
func (c *Client) Sync(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
	var resp api.SyncResponse
	if err := c.doRequest(ctx, http.MethodPost, "/sync", req, &resp); err != nil {
		return nil, fmt.Errorf("sync request failed: %w", err)
	}
	return &resp, nil
}

// SyncBatch отправляет пакет записей одного пользователя
func (c *Client) SyncBatch(ctx context.Context, req api.BatchSyncRequest) (*api.BatchSyncResponse, error) {
	var resp api.BatchSyncResponse
	if err := c.doRequest(ctx, http.MethodPost, "/sync/batch", req, &resp); err != nil {
		return nil, fmt.Errorf("batch sync request failed: %w", err)
	}
	return &resp, nil
}

// GetStatus получает состояние синхронизации пользователя на сервере
func (c *Client) GetStatus(ctx context.Context, userID string) (*api.SyncStatusResponse, error) {
	var resp api.SyncStatusResponse
	path := "/sync?userId=" + url.QueryEscape(userID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get status request failed: %w", err)
	}
	return &resp, nil
}

// UpdateOperation сообщает серверу статус операции
func (c *Client) UpdateOperation(ctx context.Context, req api.OperationStatusRequest) (*api.OperationStatusResponse, error) {
	var resp api.OperationStatusResponse
	if err := c.doRequest(ctx, http.MethodPut, "/sync", req, &resp); err != nil {
		return nil, fmt.Errorf("update operation request failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// Metrics получает агрегированные счетчики сервера
func (c *Client) Metrics(ctx context.Context) (*api.MetricsResponse, error) {
	var resp api.MetricsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/metrics", nil, &resp); err != nil {
		return nil, fmt.Errorf("metrics request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос через circuit breaker
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	raw, err := c.breaker.Execute(func() (*rawResponse, error) {
		return c.roundTrip(ctx, method, path, payload)
	})
	if err != nil {
		return err
	}

	// Декодируем успешный ответ
	if result != nil && len(raw.body) > 0 {
		if err := json.Unmarshal(raw.body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) (*rawResponse, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			statusErr.Message = errResp.Error
			if errResp.Message != "" {
				statusErr.Message += ": " + errResp.Message
			}
			statusErr.Details = errResp.Details
		}
		return nil, statusErr
	}

	return &rawResponse{status: resp.StatusCode, body: respBody}, nil
}
