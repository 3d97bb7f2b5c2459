package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyTransport struct {
	failures int
	calls    int
	status   int
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("connection reset by peer")
	}

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(`{}`)),
		Request:    req,
	}, nil
}

func newTestTransport(base http.RoundTripper, retries uint64) *RetryTransport {
	t := NewRetryTransport(base, retries)
	t.NewBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return t
}

func TestRetryTransport(t *testing.T) {
	t.Run("get retried on network error", func(t *testing.T) {
		flaky := &flakyTransport{failures: 2}
		client := &http.Client{Transport: newTestTransport(flaky, 3)}

		resp, err := client.Get("https://example.com/ticker")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 3, flaky.calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		flaky := &flakyTransport{failures: 10}
		client := &http.Client{Transport: newTestTransport(flaky, 2)}

		_, err := client.Get("https://example.com/ticker")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset by peer")
		assert.Equal(t, 3, flaky.calls)
	})

	t.Run("post is never retried", func(t *testing.T) {
		flaky := &flakyTransport{failures: 1}
		client := &http.Client{Transport: newTestTransport(flaky, 3)}

		_, err := client.Post("https://example.com/order", "application/json", strings.NewReader(`{}`))
		require.Error(t, err)
		assert.Equal(t, 1, flaky.calls)
	})

	t.Run("error statuses are returned as is", func(t *testing.T) {
		flaky := &flakyTransport{status: http.StatusServiceUnavailable}
		client := &http.Client{Transport: newTestTransport(flaky, 3)}

		resp, err := client.Get("https://example.com/ticker")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, 1, flaky.calls)
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		flaky := &flakyTransport{failures: 10}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://example.com/ticker", nil)
		require.NoError(t, err)

		_, err = newTestTransport(flaky, 5).RoundTrip(req)
		require.Error(t, err)
		assert.Equal(t, 1, flaky.calls)
	})
}

func TestWrapClient(t *testing.T) {
	flaky := &flakyTransport{failures: 1}
	original := &http.Client{Transport: flaky}

	wrapped := WrapClient(original, 1)
	assert.Same(t, flaky, original.Transport)

	rt, ok := wrapped.Transport.(*RetryTransport)
	require.True(t, ok)
	assert.Same(t, flaky, rt.Base)
}
