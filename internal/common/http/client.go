// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

type Client struct {
	httpClient *http.Client
	retries    int
	backoff    time.Duration
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		backoff: 500 * time.Millisecond,
	}
}

// WithRetries sets how many extra attempts DoWithRetry makes on transient failures.
func (c *Client) WithRetries(n int) *Client {
	c.retries = n
	return c
}

// WithBackoff sets the pause between attempts.
func (c *Client) WithBackoff(d time.Duration) *Client {
	c.backoff = d
	return c
}

// WithTransport replaces the underlying round tripper.
func (c *Client) WithTransport(rt http.RoundTripper) *Client {
	c.httpClient.Transport = rt
	return c
}

// DoWithRetry sends body to url and retries on transport errors and 502, 503, 504.
// The body is buffered so each attempt gets a fresh reader. Any other status is
// returned to the caller as is.
func (c *Client) DoWithRetry(ctx context.Context, method, url string, body []byte, header http.Header) (*http.Response, error) {
	var (
		resp *http.Response
		err  error
	)

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff):
			}
		}

		var req *http.Request
		req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		for k, vals := range header {
			for _, v := range vals {
				req.Header.Add(k, v)
			}
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			continue
		}
		if !IsTransientStatus(resp.StatusCode) || attempt == c.retries {
			return resp, nil
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	return resp, err
}

// IsTransientStatus reports whether a response status is worth one more try.
func IsTransientStatus(status int) bool {
	return status == http.StatusBadGateway ||
		status == http.StatusServiceUnavailable ||
		status == http.StatusGatewayTimeout
}
