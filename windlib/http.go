package windlib

import (
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID is a header with request identifier. If client
	// does not send it, it is generated.
	HeaderRequestID = "X-Request-ID"

	// QueryLatitude overrides a latitude detected by geolocation.
	QueryLatitude = "lat"

	// QueryLongitude overrides a longitude detected by geolocation.
	QueryLongitude = "lng"
)

type httpHandler struct {
	windy *Windy
}

func (h httpHandler) handleReport(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()
	overrides := Overrides{
		Latitude:  parseCoordinate(query, QueryLatitude),
		Longitude: parseCoordinate(query, QueryLongitude),
	}

	h.encodeJSON(w, h.windy.Report(req.Context(), ResolveRequestIP(req), overrides))
}

func (h httpHandler) handleStats(w http.ResponseWriter, req *http.Request) {
	response := struct {
		Results []*UsageStats `json:"results"`
	}{
		Results: h.windy.UsageStats(),
	}

	h.encodeJSON(w, response)
}

func (h httpHandler) handleNotFound(w http.ResponseWriter, req *http.Request) {
	httpError{
		Message:   "Unknown path",
		Status:    http.StatusNotFound,
		RequestID: req.Header.Get(HeaderRequestID),
	}.WriteTo(w)
}

func (h httpHandler) handleMethodNotAllowed(w http.ResponseWriter, req *http.Request) {
	httpError{
		Message:   "This HTTP method is not allowed",
		Status:    http.StatusMethodNotAllowed,
		RequestID: req.Header.Get(HeaderRequestID),
	}.WriteTo(w)
}

func (h httpHandler) encodeJSON(w http.ResponseWriter, data interface{}) {
	encoder := json.NewEncoder(w)

	w.Header().Set("Content-Type", "application/json")
	encoder.SetEscapeHTML(false)
	encoder.Encode(data) // nolint: errcheck
}

// parseCoordinate returns nil if parameter is absent. A parameter which
// is present but is not a finite number is treated as 0.
func parseCoordinate(query url.Values, name string) *float64 {
	if _, ok := query[name]; !ok {
		return nil
	}

	value, err := strconv.ParseFloat(query.Get(name), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}

	return &value
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		reqID := req.Header.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
			req.Header.Set(HeaderRequestID, reqID)
		}

		w.Header().Set(HeaderRequestID, reqID)
		next.ServeHTTP(w, req)
	})
}

// NewHTTPHandler returns a handler which serves reports for callers on
// / (GET and POST) and usage statistics on /stats.
//
// Report handler always responds with 200: failures of geolocation or
// weather lookups are part of the response body.
func NewHTTPHandler(windy *Windy) http.Handler {
	handler := httpHandler{
		windy: windy,
	}
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(requestIDMiddleware)

	router.NotFound(handler.handleNotFound)
	router.MethodNotAllowed(handler.handleMethodNotAllowed)

	router.Get("/", handler.handleReport)
	router.Post("/", handler.handleReport)
	router.Get("/stats", handler.handleStats)

	return router
}
