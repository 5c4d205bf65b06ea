package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/9seconds/isitwindy/providers"
	"github.com/hjson/hjson-go/v4"
)

const (
	DefaultListen                             = "127.0.0.1:8000"
	DefaultWeatherProvider                    = providers.NameNWS
	DefaultDatabasePath                       = providers.MaxmindFileName
	DefaultGeolocationDirectory               = providers.NameMaxmindLite
	DefaultUpdateEvery                        = 24 * time.Hour
	DefaultGeolocationHTTPTimeout             = time.Minute
	DefaultWeatherHTTPTimeout                 = 5 * time.Second
	DefaultRateLimitInterval                  = 100 * time.Millisecond
	DefaultRateLimitBurst                     = 10
	DefaultCircuitBreakerOpenThreshold        = 5
	DefaultCircuitBreakerHalfOpenTimeout      = time.Minute
	DefaultCircuitBreakerResetFailuresTimeout = 20 * time.Second
	DefaultCacheTTL                           = 5 * time.Minute
)

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v interface{}

	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("cannot unmarshal duration: %w", err)
	}

	vv, ok := v.(string)
	if !ok {
		return fmt.Errorf("incorrect duration: %v", v)
	}

	dur, err := time.ParseDuration(vv)
	if err != nil {
		return fmt.Errorf("cannot parse duration: %w", err)
	}

	d.Duration = dur

	return nil
}

type config struct {
	Listen         string            `json:"listen"`
	RootDirectory  string            `json:"root_directory"`
	RequestTimeout duration          `json:"request_timeout"`
	UserAgent      string            `json:"user_agent"`
	Geolocation    configGeolocation `json:"geolocation"`
	Weather        configWeather     `json:"weather"`
}

func (c config) GetListen() string {
	if c.Listen != "" {
		return c.Listen
	}

	return DefaultListen
}

func (c config) GetRootDirectory() string {
	if c.RootDirectory != "" {
		return c.RootDirectory
	}

	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}

	return "."
}

func (c config) GetRequestTimeout() time.Duration {
	return c.RequestTimeout.Duration
}

func (c config) GetUserAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}

	return "isitwindy/" + version
}

// GetDatabasePath returns an absolute path to a static city database.
// Relative paths are resolved against a root directory.
func (c config) GetDatabasePath() string {
	path := c.Geolocation.DatabasePath
	if path == "" {
		path = DefaultDatabasePath
	}

	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(c.GetRootDirectory(), path)
}

// GetGeolocationDirectory returns a base directory for downloaded
// databases.
func (c config) GetGeolocationDirectory() string {
	dir := c.Geolocation.Directory
	if dir == "" {
		dir = DefaultGeolocationDirectory
	}

	if filepath.IsAbs(dir) {
		return dir
	}

	return filepath.Join(c.GetRootDirectory(), dir)
}

type configGeolocation struct {
	DatabasePath string   `json:"database_path"`
	Directory    string   `json:"directory"`
	LicenseKey   string   `json:"license_key"`
	UpdateEvery  duration `json:"update_every"`
	HTTPTimeout  duration `json:"http_timeout"`
}

func (c configGeolocation) IsDownloadable() bool {
	return c.LicenseKey != ""
}

func (c configGeolocation) GetUpdateEvery() time.Duration {
	if c.UpdateEvery.Duration == 0 {
		return DefaultUpdateEvery
	}

	return c.UpdateEvery.Duration
}

func (c configGeolocation) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout.Duration == 0 {
		return DefaultGeolocationHTTPTimeout
	}

	return c.HTTPTimeout.Duration
}

type configWeather struct {
	Provider                           string   `json:"provider"`
	HTTPTimeout                        duration `json:"http_timeout"`
	RateLimitInterval                  duration `json:"rate_limit_interval"`
	RateLimitBurst                     uint     `json:"rate_limit_burst"`
	CircuitBreakerOpenThreshold        uint32   `json:"circuit_breaker_open_threshold"`
	CircuitBreakerHalfOpenTimeout      duration `json:"circuit_breaker_half_open_timeout"`
	CircuitBreakerResetFailuresTimeout duration `json:"circuit_breaker_reset_failures_timeout"`
	CacheSize                          uint     `json:"cache_size"`
	CacheTTL                           duration `json:"cache_ttl"`
	GeonamesUsername                   string   `json:"geonames_username"`
}

func (c configWeather) GetProvider() string {
	if c.Provider != "" {
		return c.Provider
	}

	return DefaultWeatherProvider
}

func (c configWeather) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout.Duration == 0 {
		return DefaultWeatherHTTPTimeout
	}

	return c.HTTPTimeout.Duration
}

func (c configWeather) GetRateLimitInterval() time.Duration {
	if c.RateLimitInterval.Duration == 0 {
		return DefaultRateLimitInterval
	}

	return c.RateLimitInterval.Duration
}

func (c configWeather) GetRateLimitBurst() int {
	if c.RateLimitBurst == 0 {
		return DefaultRateLimitBurst
	}

	return int(c.RateLimitBurst)
}

func (c configWeather) GetCircuitBreakerOpenThreshold() uint32 {
	if c.CircuitBreakerOpenThreshold == 0 {
		return DefaultCircuitBreakerOpenThreshold
	}

	return c.CircuitBreakerOpenThreshold
}

func (c configWeather) GetCircuitBreakerHalfOpenTimeout() time.Duration {
	if c.CircuitBreakerHalfOpenTimeout.Duration == 0 {
		return DefaultCircuitBreakerHalfOpenTimeout
	}

	return c.CircuitBreakerHalfOpenTimeout.Duration
}

func (c configWeather) GetCircuitBreakerResetFailuresTimeout() time.Duration {
	if c.CircuitBreakerResetFailuresTimeout.Duration == 0 {
		return DefaultCircuitBreakerResetFailuresTimeout
	}

	return c.CircuitBreakerResetFailuresTimeout.Duration
}

func (c configWeather) GetCacheSize() uint {
	return c.CacheSize
}

func (c configWeather) GetCacheTTL() time.Duration {
	if c.CacheTTL.Duration == 0 {
		return DefaultCacheTTL
	}

	return c.CacheTTL.Duration
}

func parseConfig(reader io.Reader) (*config, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	conf := config{}
	rawMap := map[string]interface{}{}

	if err := hjson.Unmarshal(content, &rawMap); err != nil {
		return nil, fmt.Errorf("cannot parse hjson: %w", err)
	}

	rawBytes, _ := json.Marshal(rawMap)

	if err := json.Unmarshal(rawBytes, &conf); err != nil {
		return nil, fmt.Errorf("incorrect config structure: %w", err)
	}

	if _, _, err := net.SplitHostPort(conf.GetListen()); err != nil {
		return nil, fmt.Errorf("incorrect host:port for listen: %w", err)
	}

	conf.RootDirectory, err = filepath.Abs(conf.GetRootDirectory())
	if err != nil {
		return nil, fmt.Errorf("incorrect root directory: %w", err)
	}

	if conf.RequestTimeout.Duration < 0 {
		return nil, fmt.Errorf("request timeout should be positive: %v", conf.RequestTimeout.Duration)
	}

	switch conf.Weather.GetProvider() {
	case providers.NameNWS, providers.NameOpenMeteo:
	default:
		return nil, fmt.Errorf("unsupported weather provider: %s", conf.Weather.GetProvider())
	}

	return &conf, nil
}
