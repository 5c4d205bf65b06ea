package windlib

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
)

// DefaultRequestTimeout is a deadline for a whole report if nothing
// else is given.
const DefaultRequestTimeout = 10 * time.Second

// Windy glues geolocation and weather lookups together. It is safe for
// concurrent use.
type Windy struct {
	logger         Logger
	geolocator     Geolocator
	weather        WeatherProvider
	requestTimeout time.Duration
	geoStats       *UsageStats
	weatherStats   *UsageStats
	handler        http.Handler
	closeOnce      sync.Once
	closed         atomic.Bool
}

func (w *Windy) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	w.handler.ServeHTTP(rw, req)
}

// Report geolocates given IP address, applies explicit coordinates if
// any and returns wind conditions at the result location. It never
// fails: errors are reported within a response.
func (w *Windy) Report(ctx context.Context, ip string, overrides Overrides) Report {
	ctx, cancel := context.WithTimeout(ctx, w.requestTimeout)
	defer cancel()

	rv := Report{
		IPAddress:   ip,
		Geolocation: w.geolocate(ctx, ip),
	}

	w.logger.LookupInfo(ip, rv.Geolocation)

	latitude := rv.Geolocation.Latitude
	longitude := rv.Geolocation.Longitude

	if overrides.Latitude != nil {
		latitude = *overrides.Latitude
	}

	if overrides.Longitude != nil {
		longitude = *overrides.Longitude
	}

	rv.Forecast = w.forecast(ctx, latitude, longitude)

	return rv
}

func (w *Windy) geolocate(ctx context.Context, ip string) GeolocationResult {
	if w.closed.Load() {
		return GeolocationResult{Message: ErrWindyShutdown.Error()}
	}

	location, err := w.doGeolocate(ctx, ip)

	w.geoStats.Used(err)

	if err != nil {
		w.logger.LookupError(ip, w.geolocator.Name(), err)

		return GeolocationResult{Message: err.Error()}
	}

	return newGeolocationResult(location)
}

func (w *Windy) doGeolocate(ctx context.Context, ip string) (Location, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Location{}, fmt.Errorf("%w: %q", ErrCannotParseIP, ip)
	}

	return w.geolocator.Lookup(ctx, parsed)
}

func (w *Windy) forecast(ctx context.Context, latitude, longitude float64) WeatherResult {
	rv := WeatherResult{
		Provider: w.weather.Name(),
	}

	switch {
	case w.closed.Load():
		rv.Message = ErrWindyShutdown.Error()

		return rv
	case latitude == 0 && longitude == 0:
		rv.Message = ErrNoLocationData.Error()

		return rv
	}

	forecast, err := w.weather.Forecast(ctx, latitude, longitude)

	w.weatherStats.Used(err)

	if err != nil {
		w.logger.WeatherError(w.weather.Name(), latitude, longitude, err)
		rv.Message = err.Error()

		return rv
	}

	return newWeatherResult(w.weather.Name(), forecast)
}

// UsageStats returns statistics of geolocator and weather provider, in
// this order.
func (w *Windy) UsageStats() []*UsageStats {
	return []*UsageStats{w.geoStats, w.weatherStats}
}

// Shutdown stops database updates and closes databases. After that
// Windy responds only with failures. Reports which are in flight are not
// waited for: they get an error from a closed geolocator at most.
func (w *Windy) Shutdown() {
	w.closed.Store(true)

	w.closeOnce.Do(func() {
		if v, ok := w.geolocator.(shutdowner); ok {
			v.Shutdown()
		}
	})
}

// NewWindy creates a new instance of Windy. If geolocator is offline,
// it is wrapped into an updater which downloads a database in
// background and refreshes it periodically.
//
// requestTimeout is a deadline for the whole report; if it is not
// positive, DefaultRequestTimeout is used.
func NewWindy(geolocator Geolocator,
	weather WeatherProvider,
	logger Logger,
	requestTimeout time.Duration) (*Windy, error) {
	rv := &Windy{
		logger:         logger,
		weather:        weather,
		requestTimeout: requestTimeout,
		geoStats:       &UsageStats{Name: geolocator.Name()},
		weatherStats:   &UsageStats{Name: weather.Name()},
	}

	if rv.requestTimeout <= 0 {
		rv.requestTimeout = DefaultRequestTimeout
	}

	if v, ok := geolocator.(OfflineGeolocator); ok {
		updater := newFsUpdater(v, afero.NewOsFs(), logger, rv.geoStats)

		if err := updater.Start(); err != nil {
			return nil, fmt.Errorf("cannot start geolocator %s: %w", v.Name(), err)
		}

		geolocator = updater
	}

	rv.geolocator = geolocator
	rv.handler = NewHTTPHandler(rv)

	return rv, nil
}
