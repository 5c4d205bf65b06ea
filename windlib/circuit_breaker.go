package windlib

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

type circuitBreakerCallback func(context.Context) (*http.Response, error)

type circuitBreakerState uint8

const (
	circuitBreakerStateClosed circuitBreakerState = iota
	circuitBreakerStateHalfOpened
	circuitBreakerStateOpened
)

func (c circuitBreakerState) String() string {
	switch c {
	case circuitBreakerStateClosed:
		return "closed"
	case circuitBreakerStateHalfOpened:
		return "half-opened"
	}

	return "opened"
}

// circuitBreaker stops sending requests to an upstream after a series
// of failures. State transitions are evaluated on each call: opened
// breaker becomes half-opened once halfOpenTimeout has passed since it
// was opened, and only a single probe request is allowed in this state.
type circuitBreaker struct {
	mutex sync.Mutex
	now   func() time.Time

	state         circuitBreakerState
	failures      uint32
	failuresSince time.Time
	openedAt      time.Time
	probing       bool

	openThreshold        uint32
	halfOpenTimeout      time.Duration
	resetFailuresTimeout time.Duration
}

func (c *circuitBreaker) Do(ctx context.Context, callback circuitBreakerCallback) (*http.Response, error) {
	probe, err := c.acquire()
	if err != nil {
		return nil, err
	}

	resp, err := callback(ctx)

	c.release(probe, err)

	return resp, err
}

func (c *circuitBreaker) State() circuitBreakerState {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.refresh(c.now())

	return c.state
}

// acquire checks if a request is allowed. probe is true if this request
// decides the fate of a half-opened breaker.
func (c *circuitBreaker) acquire() (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.refresh(c.now())

	switch {
	case c.state == circuitBreakerStateOpened:
		return false, ErrCircuitBreakerOpened
	case c.state == circuitBreakerStateHalfOpened && c.probing:
		return false, ErrCircuitBreakerOpened
	case c.state == circuitBreakerStateHalfOpened:
		c.probing = true

		return true, nil
	}

	return false, nil
}

func (c *circuitBreaker) release(probe bool, err error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()

	if probe {
		c.probing = false
	}

	switch {
	case errors.Is(err, ErrCircuitBreakerIgnore):
		return
	case probe && c.state == circuitBreakerStateHalfOpened:
		if err == nil {
			c.close()
		} else {
			c.open(now)
		}

		return
	case c.state != circuitBreakerStateClosed:
		return
	case err == nil:
		c.close()

		return
	}

	if now.Sub(c.failuresSince) >= c.resetFailuresTimeout {
		c.failures = 0
		c.failuresSince = now
	}

	c.failures++

	if c.failures > c.openThreshold {
		c.open(now)
	}
}

func (c *circuitBreaker) refresh(now time.Time) {
	if c.state == circuitBreakerStateOpened && now.Sub(c.openedAt) >= c.halfOpenTimeout {
		c.state = circuitBreakerStateHalfOpened
		c.probing = false
	}
}

func (c *circuitBreaker) open(now time.Time) {
	c.state = circuitBreakerStateOpened
	c.openedAt = now
	c.failures = 0
}

func (c *circuitBreaker) close() {
	c.state = circuitBreakerStateClosed
	c.failures = 0
	c.failuresSince = time.Time{}
}

func newCircuitBreaker(openThreshold uint32,
	halfOpenTimeout, resetFailuresTimeout time.Duration) *circuitBreaker {
	return &circuitBreaker{
		now:                  time.Now,
		openThreshold:        openThreshold,
		halfOpenTimeout:      halfOpenTimeout,
		resetFailuresTimeout: resetFailuresTimeout,
	}
}
