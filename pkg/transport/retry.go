package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "transport")

const DefaultMaxRetries uint64 = 3

// RetryTransport retries idempotent requests (GET and HEAD) that failed at
// the network level. Responses are never retried, whatever their status:
// exchange errors are classified by the adapters.
type RetryTransport struct {
	Base http.RoundTripper

	MaxRetries uint64

	// NewBackOff creates the policy for one request. Defaults to an
	// exponential back-off starting at 200ms.
	NewBackOff func() backoff.BackOff
}

// NewRetryTransport wraps base, or http.DefaultTransport when base is nil.
func NewRetryTransport(base http.RoundTripper, maxRetries uint64) *RetryTransport {
	return &RetryTransport{Base: base, MaxRetries: maxRetries}
}

// WrapClient returns a shallow copy of client whose transport retries.
func WrapClient(client *http.Client, maxRetries uint64) *http.Client {
	if client == nil {
		client = &http.Client{}
	}

	wrapped := *client
	wrapped.Transport = NewRetryTransport(client.Transport, maxRetries)
	return &wrapped
}

func (t *RetryTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *RetryTransport) backOff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff
	if t.NewBackOff != nil {
		b = t.NewBackOff()
	} else {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = 200 * time.Millisecond
		exp.MaxElapsedTime = 10 * time.Second
		b = exp
	}

	return backoff.WithContext(backoff.WithMaxRetries(b, t.MaxRetries), ctx)
}

func idempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !idempotent(req.Method) || t.MaxRetries == 0 {
		return t.base().RoundTrip(req)
	}

	var resp *http.Response
	attempt := 0
	op := func() error {
		attempt++
		var err error
		resp, err = t.base().RoundTrip(req)
		if err == nil {
			return nil
		}

		if req.Context().Err() != nil {
			return backoff.Permanent(err)
		}

		log.WithError(err).Debugf("%s %s attempt %d failed", req.Method, req.URL.Path, attempt)
		return err
	}

	if err := backoff.Retry(op, t.backOff(req.Context())); err != nil {
		return nil, errors.Wrapf(err, "%s %s failed after %d attempts", req.Method, req.URL.Path, attempt)
	}
	return resp, nil
}
