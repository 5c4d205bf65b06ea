// Isitwindy is a service which answers a single question: is it windy
// where you are right now?
//
// It takes an IP address of the caller, resolves it into coordinates
// with MaxMind city database and asks a weather API about current wind
// speed, direction and gusts at these coordinates.
//
// Tool itself is organized into 3 logical parts:
//
// Windlib
//
// windlib is a main package of the application which contains Windy
// struct and the logic which glues geolocation and weather lookups.
// It has its own HTTP API and can act as http.Handler.
//
// Providers
//
// This package has implementations of geolocators (MaxMind database
// either as a static file or downloaded with a license key) and weather
// providers (api.weather.gov and Open-Meteo with GeoNames).
//
// Isitwindy
//
// A main package itself is a wiring of both windlib and providers. It
// reads a config, sets up logging and starts an HTTP server.
//
// Config is in HJSON format. Please see example.hjson for all options
// and their defaults.
package main
