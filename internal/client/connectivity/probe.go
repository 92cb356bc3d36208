package connectivity

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// HTTPProbe считает сеть доступной, если GET {baseURL}/health отвечает 2xx
type HTTPProbe struct {
	client *http.Client
	url    string
}

// NewHTTPProbe создает probe для сервера синхронизации
func NewHTTPProbe(baseURL string, timeout time.Duration) *HTTPProbe {
	return &HTTPProbe{
		url:    strings.TrimRight(baseURL, "/") + "/health",
		client: &http.Client{Timeout: timeout},
	}
}

// Check выполняет запрос health check
func (p *HTTPProbe) Check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
