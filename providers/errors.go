package providers

import "errors"

var (
	// ErrDatabaseIsNotReadyYet is returned by a MaxMind geolocator
	// which has no opened database. An offline one may still be
	// downloading it.
	ErrDatabaseIsNotReadyYet = errors.New("database is not initialized yet")

	// ErrAuthTokenIsRequired is returned by constructors of providers
	// which cannot work anonymously: MaxMind needs a license key,
	// GeoNames needs a username.
	ErrAuthTokenIsRequired = errors.New("auth token is required")

	ErrNoFile          = errors.New("cannot find a database file in downloaded archive")
	ErrAddressNotFound = errors.New("address is not found in the database")

	// ErrNoForecastGrid means that api.weather.gov has no grid for
	// given coordinates. This is what you get outside of USA.
	ErrNoForecastGrid = errors.New("no forecast grid for this location")
)
