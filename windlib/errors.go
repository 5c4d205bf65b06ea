package windlib

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoLocationData is returned if both latitude and longitude are
	// zero. (0, 0) is a marker of unknown location so weather providers
	// are not asked about it.
	ErrNoLocationData = errors.New("No location data")

	ErrWindyShutdown        = errors.New("windy instance was shutdown")
	ErrCircuitBreakerOpened = errors.New("circuit breaker is opened")
	ErrCircuitBreakerIgnore = errors.New("this error is ignored by circuit breaker")
	ErrCannotParseIP        = errors.New("cannot parse IP address")
)

// httpError is a router level failure: unknown path or unsupported
// method. Geolocation and weather failures are never reported with it.
type httpError struct {
	Message   string `json:"message"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

func (h httpError) Error() string {
	return fmt.Sprintf("%d %s: %s", h.Status, http.StatusText(h.Status), h.Message)
}

func (h httpError) WriteTo(w http.ResponseWriter) {
	if h.Status == 0 {
		h.Status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(h.Status)

	json.NewEncoder(w).Encode(struct { // nolint: errcheck
		Error httpError `json:"error"`
	}{h})
}
