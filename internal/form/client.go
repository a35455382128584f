// internal/form/client.go
package form

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"loan-intake/internal/common/errors"
	commonhttp "loan-intake/internal/common/http"
	"loan-intake/internal/common/logger"
)

const maxResponseBody = 64 * 1024

// SubmitResult is the relay's acknowledgement of an accepted submission.
type SubmitResult struct {
	ReferenceID string `json:"referenceId"`
	StatusCode  int    `json:"status"`
}

// Submitter sends one serialized application to the relay.
type Submitter interface {
	Submit(ctx context.Context, payload *Payload) (*SubmitResult, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, payload *Payload) (*SubmitResult, error)

func (f SubmitterFunc) Submit(ctx context.Context, payload *Payload) (*SubmitResult, error) {
	return f(ctx, payload)
}

type relayResponse struct {
	OK          bool   `json:"ok"`
	Error       string `json:"error"`
	Code        string `json:"code"`
	ReferenceID string `json:"referenceId"`
}

type RelayClientOptions struct {
	Config    *Config
	Logger    logger.Logger
	Transport http.RoundTripper
}

// RelayClient posts payloads to <RelayURL>/apply.
type RelayClient struct {
	endpoint string
	client   *commonhttp.Client
	logger   logger.Logger
}

func NewRelayClient(opts RelayClientOptions) *RelayClient {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	// Only an unreachable relay is worth another attempt; GetRetryCount caps it.
	client := commonhttp.NewClient(cfg.Timeout).
		WithRetries(min(cfg.Retries, errors.GetRetryCount(errors.ErrCodeRelayUnavailable))).
		WithBackoff(cfg.RetryInterval)
	if opts.Transport != nil {
		client.WithTransport(opts.Transport)
	}

	return &RelayClient{
		endpoint: strings.TrimRight(cfg.RelayURL, "/") + "/apply",
		client:   client,
		logger:   log.WithFields(map[string]interface{}{"component": "relay-client"}),
	}
}

func (c *RelayClient) Submit(ctx context.Context, payload *Payload) (*SubmitResult, error) {
	header := http.Header{}
	header.Set("Content-Type", payload.ContentType)
	header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.DoWithRetry(ctx, http.MethodPost, c.endpoint, payload.Body, header)
	if err != nil {
		c.logger.Warn("Relay unreachable", map[string]interface{}{
			"endpoint": c.endpoint,
			"error":    err,
		})
		return nil, errors.NewRelayUnavailableError(err)
	}
	defer resp.Body.Close()

	// Detail extraction is best effort: an unreadable body degrades to the generic message.
	var body relayResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	_ = json.Unmarshal(raw, &body)

	c.logger.Info("Relay responded", map[string]interface{}{
		"status":     resp.StatusCode,
		"ok":         body.OK,
		"durationMs": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !body.OK {
		return nil, errors.NewRelayRejectedError(resp.StatusCode, body.Error)
	}

	return &SubmitResult{
		ReferenceID: body.ReferenceID,
		StatusCode:  resp.StatusCode,
	}, nil
}
