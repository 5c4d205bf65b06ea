package windlib

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

type httpClient struct {
	userAgent      string
	client         *http.Client
	rateLimiter    *rate.Limiter
	circuitBreaker *circuitBreaker
}

func (h httpClient) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", h.userAgent)

	return h.circuitBreaker.Do(req.Context(), func(ctx context.Context) (*http.Response, error) {
		return h.doOnce(ctx, req)
	})
}

func (h httpClient) doOnce(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := h.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCircuitBreakerIgnore, err)
	}

	resp, err := h.client.Do(req.WithContext(ctx))

	switch {
	case err != nil && ctx.Err() != nil:
		// caller has gone away, upstream may be perfectly fine
		closeResponse(resp)

		return nil, fmt.Errorf("%w: %w", ErrCircuitBreakerIgnore, err)
	case err != nil:
		closeResponse(resp)

		return nil, err
	case resp.StatusCode >= http.StatusBadRequest:
		closeResponse(resp)

		return nil, fmt.Errorf("%s has responded with %s", req.URL.Host, resp.Status)
	}

	return resp, nil
}

// NewHTTPClient wraps client for calls to weather APIs and MaxMind.
// Each request gets userAgent, waits for a token of a rate limiter
// (one per rateLimiterInterval, up to rateLimitBurst at once) and goes
// through a circuit breaker. Any response with status >= 400 is an
// error.
//
// Circuit breaker opens when it sees more than
// circuitBreakerOpenThreshold failures within
// circuitBreakerResetFailuresTimeout. Once opened, all requests fail
// with ErrCircuitBreakerOpened for circuitBreakerHalfOpenTimeout. After
// that a single probe request is allowed: success closes the breaker,
// failure opens it again.
func NewHTTPClient(client *http.Client,
	userAgent string,
	rateLimiterInterval time.Duration,
	rateLimitBurst int,
	circuitBreakerOpenThreshold uint32,
	circuitBreakerHalfOpenTimeout, circuitBreakerResetFailuresTimeout time.Duration) HTTPClient {
	return httpClient{
		userAgent:   userAgent,
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Every(rateLimiterInterval), rateLimitBurst),
		circuitBreaker: newCircuitBreaker(circuitBreakerOpenThreshold,
			circuitBreakerHalfOpenTimeout,
			circuitBreakerResetFailuresTimeout),
	}
}

func closeResponse(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}

	io.Copy(io.Discard, resp.Body) // nolint: errcheck
	resp.Body.Close()
}
