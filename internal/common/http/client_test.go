package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []int
		retries      int
		wantStatus   int
		wantAttempts int32
	}{
		{"success first try", []int{200}, 1, 200, 1},
		{"retries once on 503", []int{503, 200}, 1, 200, 2},
		{"gives up after one retry", []int{502, 504, 200}, 1, 504, 2},
		{"no retry on 500", []int{500, 200}, 1, 500, 1},
		{"no retry on 400", []int{400, 200}, 1, 400, 1},
		{"retries disabled", []int{503, 200}, 0, 503, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				body, _ := io.ReadAll(r.Body)
				assert.Equal(t, "payload", string(body))
				assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
				w.WriteHeader(tt.statuses[n-1])
			}))
			defer srv.Close()

			c := NewClient(time.Second).WithRetries(tt.retries).WithBackoff(time.Millisecond)
			header := http.Header{}
			header.Set("Content-Type", "text/plain")

			resp, err := c.DoWithRetry(context.Background(), http.MethodPost, srv.URL, []byte("payload"), header)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantAttempts, atomic.LoadInt32(&calls))
		})
	}
}

func TestDoWithRetry_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(time.Second).WithRetries(1).WithBackoff(time.Millisecond)
	resp, err := c.DoWithRetry(context.Background(), http.MethodPost, url, nil, nil)

	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestDoWithRetry_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(time.Second).WithRetries(1).WithBackoff(time.Hour)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.DoWithRetry(ctx, http.MethodGet, srv.URL, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
