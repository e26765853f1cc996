package fetch

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/scour/internal/logger"
)

// Transport applies a RetryPolicy as an http.RoundTripper. It exists
// so SDK-based adapters (the code host client) share the same retry
// behaviour as Client without going through it.
//
// Requests with a non-replayable body are never retried.
type Transport struct {
	// Base is the underlying round tripper (http.DefaultTransport when
	// nil).
	Base http.RoundTripper

	// Policy is the retry policy (DefaultRetryPolicy when zero).
	Policy RetryPolicy

	// Limiter optionally throttles outbound requests.
	Limiter *rate.Limiter
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	policy := t.Policy
	if policy.MaxAttempts == 0 {
		policy = DefaultRetryPolicy()
	}

	replayable := req.Body == nil || req.GetBody != nil
	ctx := req.Context()

	var resp *http.Response
	var err error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if t.Limiter != nil {
			if werr := t.Limiter.Wait(ctx); werr != nil {
				return nil, werr
			}
		}

		if attempt > 1 && req.GetBody != nil {
			body, berr := req.GetBody()
			if berr != nil {
				return resp, err
			}
			req.Body = body
		}

		resp, err = base.RoundTrip(req)

		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		if err == nil && status < 500 && status != http.StatusTooManyRequests {
			return resp, nil
		}
		if !replayable || !policy.Retryable(status, err) || attempt == policy.MaxAttempts {
			return resp, err
		}

		// The retried response body must be drained and closed before
		// the connection can be reused.
		if resp != nil {
			resp.Body.Close()
		}

		delay := policy.Delay(attempt)
		logger.Warn("component=http_retry attempt=%d/%d url=%s status=%d delay=%s err=%v",
			attempt, policy.MaxAttempts, stripQuery(req.URL.String()), status, delay, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return resp, err
}
