package windlib

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/spf13/afero"
)

// Geolocator maps IP address to a location.
type Geolocator interface {
	Name() string
	Lookup(context.Context, net.IP) (Location, error)
}

// OfflineGeolocator is a geolocator which works with a local database
// that has to be downloaded and refreshed from time to time.
//
// Download gets a filesystem rooted in a fresh temporary directory.
// Once download succeeds, this directory is promoted to a target one
// and its real path is passed to Open.
type OfflineGeolocator interface {
	Geolocator

	Shutdown()
	UpdateEvery() time.Duration
	BaseDirectory() string
	Open(string) error
	Download(context.Context, afero.Fs) error
}

// WeatherProvider returns current wind conditions for given
// coordinates.
type WeatherProvider interface {
	Name() string
	Forecast(ctx context.Context, latitude, longitude float64) (Forecast, error)
}

// HTTPClient is an interface for outbound HTTP requests.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Logger is an interface which receives events Windy wants to report.
type Logger interface {
	LookupInfo(ip string, result GeolocationResult)
	LookupError(ip string, name string, err error)
	WeatherError(name string, latitude, longitude float64, err error)
	UpdateInfo(name string, msg string)
	UpdateError(name string, err error)
}

type shutdowner interface {
	Shutdown()
}
