package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/9seconds/isitwindy/providers"
	"github.com/9seconds/isitwindy/windlib"
)

func makeRootContext() (context.Context, context.CancelFunc) {
	rootCtx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	return rootCtx, cancel
}

func makeGeolocator(conf *config) (windlib.Geolocator, error) {
	geoConf := conf.Geolocation

	if !geoConf.IsDownloadable() {
		prov, err := providers.NewMaxmindFile(conf.GetDatabasePath())
		if err != nil {
			return nil, fmt.Errorf("cannot open %s: %w", conf.GetDatabasePath(), err)
		}

		return prov, nil
	}

	baseDir, err := ensureDir(conf.GetGeolocationDirectory())
	if err != nil {
		return nil, fmt.Errorf("cannot create base directory for maxmind provider: %w", err)
	}

	// downloads have their own client and timeout, weather circuit
	// breaker is not shared with them.
	httpClient := makeNewHTTPClient(conf.GetUserAgent(),
		geoConf.GetHTTPTimeout(),
		DefaultRateLimitInterval,
		DefaultRateLimitBurst,
		DefaultCircuitBreakerOpenThreshold,
		DefaultCircuitBreakerHalfOpenTimeout,
		DefaultCircuitBreakerResetFailuresTimeout)

	prov, err := providers.NewMaxmindLite(httpClient, geoConf.GetUpdateEvery(), baseDir, geoConf.LicenseKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create maxmind provider: %w", err)
	}

	return prov, nil
}

func makeWeatherProvider(conf *config) (windlib.WeatherProvider, error) {
	weatherConf := conf.Weather
	httpClient := makeNewHTTPClient(conf.GetUserAgent(),
		weatherConf.GetHTTPTimeout(),
		weatherConf.GetRateLimitInterval(),
		weatherConf.GetRateLimitBurst(),
		weatherConf.GetCircuitBreakerOpenThreshold(),
		weatherConf.GetCircuitBreakerHalfOpenTimeout(),
		weatherConf.GetCircuitBreakerResetFailuresTimeout())

	var rv windlib.WeatherProvider

	switch weatherConf.GetProvider() {
	case providers.NameNWS:
		rv = providers.NewNWS(httpClient)
	case providers.NameOpenMeteo:
		prov, err := providers.NewOpenMeteo(httpClient, weatherConf.GeonamesUsername)
		if err != nil {
			return nil, fmt.Errorf("cannot create open_meteo provider: %w", err)
		}

		rv = prov
	default:
		return nil, fmt.Errorf("unsupported weather provider: %s", weatherConf.GetProvider())
	}

	if size := weatherConf.GetCacheSize(); size > 0 {
		rv = windlib.NewCachingWeatherProvider(rv, size, weatherConf.GetCacheTTL())
	}

	return rv, nil
}

func makeNewHTTPClient(userAgent string,
	timeout time.Duration,
	rateLimitInterval time.Duration,
	rateLimitBurst int,
	circuitBreakerOpenThreshold uint32,
	circuitBreakerHalfOpenTimeout, circuitBreakerResetFailuresTimeout time.Duration) windlib.HTTPClient {
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Jar:     jar,
	}

	return windlib.NewHTTPClient(httpClient,
		userAgent,
		rateLimitInterval,
		rateLimitBurst,
		circuitBreakerOpenThreshold,
		circuitBreakerHalfOpenTimeout,
		circuitBreakerResetFailuresTimeout)
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	return dir, nil
}
