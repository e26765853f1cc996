// Package fetch is the shared outbound HTTP client for source
// adapters. It performs single GET/POST requests with a timeout, a
// common User-Agent, and automatic retry with exponential backoff on
// transient failures. The retry behaviour is carried by an explicit
// RetryPolicy value; Transport exposes the same policy as an
// http.RoundTripper for SDK-based clients.
package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/scour/internal/logger"
)

const (
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies scour to external providers.
	DefaultUserAgent = "scour/1.0 (+https://github.com/custodia-labs/scour)"
)

// Config holds construction parameters for a Client.
type Config struct {
	// Timeout is the per-request timeout (default 10s).
	Timeout time.Duration

	// UserAgent is sent on every request (default DefaultUserAgent).
	UserAgent string

	// Policy is the retry policy (default DefaultRetryPolicy).
	Policy RetryPolicy

	// RequestsPerSecond enables proactive throttling when positive.
	RequestsPerSecond float64

	// Transport overrides the underlying round tripper, mainly for
	// tests.
	Transport http.RoundTripper
}

// Client performs outbound HTTP requests with retry and throttling.
type Client struct {
	http      *http.Client
	policy    RetryPolicy
	userAgent string
	limiter   *rate.Limiter
}

// Response is a fully-read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewClient creates a fetch client from the given config, applying
// defaults for any zero field.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Policy.MaxAttempts == 0 {
		cfg.Policy = DefaultRetryPolicy()
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		policy:    cfg.Policy,
		userAgent: cfg.UserAgent,
		limiter:   limiter,
	}
}

// Policy returns the client's retry policy.
func (c *Client) Policy() RetryPolicy {
	return c.policy
}

// Get performs a GET request with the given query parameters and
// headers. On failure it returns a *Error after exhausting retries.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values, headers http.Header) (*Response, error) {
	return c.do(ctx, http.MethodGet, rawURL, params, headers, nil)
}

// Post performs a POST request with the given body. The body is
// replayed on each retry attempt.
func (c *Client) Post(ctx context.Context, rawURL string, headers http.Header, body []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, rawURL, nil, headers, body)
}

func (c *Client) do(ctx context.Context, method, rawURL string, params url.Values, headers http.Header, body []byte) (*Response, error) {
	if params != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, &Error{URL: rawURL, Err: err, Attempts: 0}
		}
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}

	var lastStatus int
	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		attempts = attempt
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, &Error{URL: stripQuery(rawURL), Err: err, Attempts: attempt}
			}
		}

		resp, err := c.attempt(ctx, method, rawURL, headers, body)
		if err == nil && resp.StatusCode < 400 {
			return resp, nil
		}

		lastErr = err
		lastStatus = 0
		if resp != nil {
			lastStatus = resp.StatusCode
		}

		if !c.policy.Retryable(lastStatus, err) || attempt == c.policy.MaxAttempts {
			break
		}

		delay := c.policy.Delay(attempt)
		logger.Warn("component=http_retry attempt=%d/%d url=%s status=%d delay=%s err=%v",
			attempt, c.policy.MaxAttempts, stripQuery(rawURL), lastStatus, delay, err)

		select {
		case <-ctx.Done():
			return nil, &Error{URL: stripQuery(rawURL), Err: ctx.Err(), Attempts: attempt}
		case <-time.After(delay):
		}
	}

	return nil, &Error{
		URL:        stripQuery(rawURL),
		StatusCode: lastStatus,
		Attempts:   attempts,
		Err:        lastErr,
	}
}

// attempt performs one request and reads the body fully.
func (c *Client) attempt(ctx context.Context, method, rawURL string, headers http.Header, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}

	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// stripQuery removes query parameters before logging so tokens in
// params never reach the logs.
func stripQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
