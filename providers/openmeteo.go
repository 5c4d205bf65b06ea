package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/9seconds/isitwindy/windlib"
)

var (
	// OpenMeteoForecastURL is an endpoint of Open-Meteo forecasts.
	OpenMeteoForecastURL = "https://api.open-meteo.com/v1/forecast"

	// GeonamesNearbyPlaceURL is an endpoint of GeoNames reverse
	// geocoding.
	GeonamesNearbyPlaceURL = "http://api.geonames.org/findNearbyPlaceNameJSON"
)

const (
	openMeteoCurrentFields = "wind_speed_10m,wind_direction_10m,wind_gusts_10m"
	openMeteoTimeLayout    = "2006-01-02T15:04"
)

type openMeteoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   struct {
		Time          string  `json:"time"`
		Interval      int     `json:"interval"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		WindDirection float64 `json:"wind_direction_10m"`
		WindGusts     float64 `json:"wind_gusts_10m"`
	} `json:"current"`
}

type geonamesPlace struct {
	Name        string  `json:"name"`
	AdminCode1  string  `json:"adminCode1"`
	CountryCode string  `json:"countryCode"`
	Latitude    float64 `json:"lat,string"`
	Longitude   float64 `json:"lng,string"`
	Distance    float64 `json:"distance,string"`
}

func (g geonamesPlace) PrefersImperial() bool {
	return g.CountryCode == "US"
}

type geonamesResponse struct {
	Geonames []geonamesPlace `json:"geonames"`
	Status   *struct {
		Message string `json:"message"`
		Value   int    `json:"value"`
	} `json:"status"`
}

type openMeteoProvider struct {
	httpClient       windlib.HTTPClient
	geonamesUsername string
}

func (o openMeteoProvider) Name() string {
	return NameOpenMeteo
}

func (o openMeteoProvider) Forecast(ctx context.Context, latitude, longitude float64) (windlib.Forecast, error) {
	rv := windlib.Forecast{}

	weather, err := o.fetchWeather(ctx, latitude, longitude)
	if err != nil {
		return rv, fmt.Errorf("cannot fetch weather: %w", err)
	}

	observationTime, err := time.Parse(openMeteoTimeLayout, weather.Current.Time)
	if err != nil {
		return rv, fmt.Errorf("incorrect observation time %q: %w", weather.Current.Time, err)
	}

	// Open-Meteo snaps coordinates to its grid so the place is resolved
	// for coordinates weather data is actually for.
	place, err := o.fetchPlace(ctx, weather.Latitude, weather.Longitude)
	if err != nil {
		return rv, fmt.Errorf("cannot resolve place name: %w", err)
	}

	rv.ObservationTime = observationTime
	rv.WindSpeed = weather.Current.WindSpeed
	rv.WindDirection = weather.Current.WindDirection
	rv.WindGust = weather.Current.WindGusts

	if place != nil {
		rv.LocationName = place.Name
		rv.RegionName = place.AdminCode1
		rv.PrefersImperial = place.PrefersImperial()
	}

	return rv, nil
}

func (o openMeteoProvider) fetchWeather(ctx context.Context, latitude, longitude float64) (openMeteoResponse, error) {
	rv := openMeteoResponse{}
	query := url.Values{}

	query.Set("latitude", formatCoordinate(latitude))
	query.Set("longitude", formatCoordinate(longitude))
	query.Set("current", openMeteoCurrentFields)

	err := fetchJSON(ctx, o.httpClient, OpenMeteoForecastURL+"?"+query.Encode(), "application/json", &rv)

	return rv, err
}

func (o openMeteoProvider) fetchPlace(ctx context.Context, latitude, longitude float64) (*geonamesPlace, error) {
	response := geonamesResponse{}
	query := url.Values{}

	query.Set("formatted", "true")
	query.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(longitude, 'f', -1, 64))
	query.Set("username", o.geonamesUsername)
	query.Set("cities", "cities5000")

	endpoint := GeonamesNearbyPlaceURL + "?" + query.Encode()

	if err := fetchJSON(ctx, o.httpClient, endpoint, "application/json", &response); err != nil {
		return nil, err
	}

	if response.Status != nil {
		return nil, fmt.Errorf("geonames has responded with %d: %s",
			response.Status.Value,
			response.Status.Message)
	}

	if len(response.Geonames) == 0 {
		return nil, nil
	}

	return &response.Geonames[0], nil
}

// NewOpenMeteo returns a weather provider which takes current wind
// conditions from Open-Meteo and a name of the nearest city with
// population over 5000 from GeoNames.
//
//   Identifier: open_meteo
//   Website: https://open-meteo.com, https://www.geonames.org
//
// GeoNames requires a registered username.
func NewOpenMeteo(httpClient windlib.HTTPClient, geonamesUsername string) (windlib.WeatherProvider, error) {
	if geonamesUsername == "" {
		return nil, ErrAuthTokenIsRequired
	}

	return openMeteoProvider{
		httpClient:       httpClient,
		geonamesUsername: geonamesUsername,
	}, nil
}
