package windlib

import "time"

// Location is a result of geolocation returned by Geolocator.
type Location struct {
	CountryCode string
	Subdivision string
	City        string
	Latitude    float64
	Longitude   float64
}

// Forecast is a normalized wind report returned by WeatherProvider.
// Speeds are in km/h, direction is in degrees.
type Forecast struct {
	ObservationTime time.Time
	WindSpeed       float64
	WindDirection   float64
	WindGust        float64
	LocationName    string
	RegionName      string
	PrefersImperial bool
}

// GeolocationResult is a part of Report which describes where the IP
// address is located.
type GeolocationResult struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	Country   string  `json:"country"`
	State     string  `json:"state"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// WeatherResult is a part of Report with wind conditions.
type WeatherResult struct {
	Success         bool      `json:"success"`
	Message         string    `json:"message"`
	Provider        string    `json:"provider"`
	ObservationTime time.Time `json:"observationTime"`
	WindSpeed       float64   `json:"windSpeed"`
	WindDirection   float64   `json:"windDirection"`
	WindGust        float64   `json:"windGust"`
	LocationName    string    `json:"locationName"`
	RegionName      string    `json:"regionName"`
	PrefersImperial bool      `json:"prefersImperial"`
}

// Report is a response envelope for a single request.
type Report struct {
	IPAddress   string            `json:"IpAddress"`
	Geolocation GeolocationResult `json:"Geolocation"`
	Forecast    WeatherResult     `json:"forecast"`
}

// Overrides are explicit coordinates given by a caller. nil means that
// a value was not given and geolocation data should be used.
type Overrides struct {
	Latitude  *float64
	Longitude *float64
}

func newGeolocationResult(loc Location) GeolocationResult {
	return GeolocationResult{
		Success:   true,
		Country:   loc.CountryCode,
		State:     loc.Subdivision,
		City:      loc.City,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}
}

func newWeatherResult(provider string, forecast Forecast) WeatherResult {
	return WeatherResult{
		Success:         true,
		Provider:        provider,
		ObservationTime: forecast.ObservationTime,
		WindSpeed:       forecast.WindSpeed,
		WindDirection:   forecast.WindDirection,
		WindGust:        forecast.WindGust,
		LocationName:    forecast.LocationName,
		RegionName:      forecast.RegionName,
		PrefersImperial: forecast.PrefersImperial,
	}
}
