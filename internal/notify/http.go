package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stillpoint/breathe/internal/config"
)

// HTTPClient posts webhook payloads with bounded retries. Retries
// cover network failures, HTTP 429, and 5xx responses; other 4xx
// responses fail immediately since resending the same payload cannot
// help.
type HTTPClient struct {
	client     *http.Client
	maxRetries int
	retryDelay []time.Duration
}

func NewHTTPClient(cfg config.HTTPConfig) *HTTPClient {
	return &HTTPClient{
		client:     &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelays,
	}
}

// SendResult reports how a delivery went across all attempts.
type SendResult struct {
	StatusCode int
	Duration   time.Duration
	Attempts   int
	Error      error
}

// post runs one delivery attempt. retry reports whether another
// attempt could succeed.
func (c *HTTPClient) post(ctx context.Context, url, contentType string, body []byte) (status int, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, true, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", "Breathe/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, true, fmt.Errorf("request failed: %w", err)
	}
	respBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp.StatusCode, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return resp.StatusCode, true, fmt.Errorf("rate limited (HTTP 429)")
	case resp.StatusCode >= 500:
		return resp.StatusCode, true, fmt.Errorf("server error (HTTP %d): %s", resp.StatusCode, string(respBody))
	}
	return resp.StatusCode, false, fmt.Errorf("client error (HTTP %d): %s", resp.StatusCode, string(respBody))
}

// Send posts body to url, retrying per the configured delays until the
// budget runs out or the context is cancelled.
func (c *HTTPClient) Send(ctx context.Context, url string, contentType string, body []byte) *SendResult {
	result := &SendResult{}
	start := time.Now()

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		result.Attempts = attempt + 1

		if attempt > 0 && attempt < len(c.retryDelay) {
			select {
			case <-ctx.Done():
				result.Error = ctx.Err()
				result.Duration = time.Since(start)
				return result
			case <-time.After(c.retryDelay[attempt]):
			}
		}

		status, retry, err := c.post(ctx, url, contentType, body)
		result.StatusCode = status
		result.Error = err
		if err == nil || !retry {
			result.Duration = time.Since(start)
			return result
		}
	}

	result.Duration = time.Since(start)
	if result.Error == nil {
		result.Error = fmt.Errorf("max retries exceeded")
	}
	return result
}
