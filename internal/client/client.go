package client

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/surgelabs/surge/internal/check"
)

// HTTPClient issues the single GET a scenario iteration performs.
type HTTPClient struct {
	Client *http.Client
}

func New(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		Client: &http.Client{Timeout: timeout},
	}
}

// Get performs one GET against target: no headers, no body. Transport
// errors map to a Response with status 0 and the error text; the caller's
// checks decide what that means.
func (c *HTTPClient) Get(ctx context.Context, target string) check.Response {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return check.Response{Err: err.Error()}
	}

	resp, err := c.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		return check.Response{LatencyMS: latency, Err: err.Error()}
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused by the next iteration.
	_, _ = io.Copy(io.Discard, resp.Body)

	return check.Response{
		StatusCode: resp.StatusCode,
		LatencyMS:  latency,
	}
}
