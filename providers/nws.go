package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/9seconds/isitwindy/windlib"
)

// NWSBaseURL is a root of National Weather Service API.
var NWSBaseURL = "https://api.weather.gov"

type nwsPointsResponse struct {
	Properties struct {
		GridID           string `json:"gridId"`
		GridX            int    `json:"gridX"`
		GridY            int    `json:"gridY"`
		ForecastGridData string `json:"forecastGridData"`
		RelativeLocation struct {
			Properties struct {
				City  string `json:"city"`
				State string `json:"state"`
			} `json:"properties"`
		} `json:"relativeLocation"`
	} `json:"properties"`
}

func (n nwsPointsResponse) gridDataURL() string {
	props := n.Properties

	switch {
	case props.ForecastGridData != "":
		return props.ForecastGridData
	case props.GridID != "":
		return fmt.Sprintf("%s/gridpoints/%s/%d,%d", NWSBaseURL, props.GridID, props.GridX, props.GridY)
	}

	return ""
}

type nwsGridSeries struct {
	UOM    string `json:"uom"`
	Values []struct {
		ValidTime string   `json:"validTime"`
		Value     *float64 `json:"value"`
	} `json:"values"`
}

// last returns the latest value of the series. validTime is an ISO8601
// interval like 2024-01-02T15:00:00+00:00/PT1H, only its start matters.
func (n nwsGridSeries) last() (float64, time.Time) {
	if len(n.Values) == 0 {
		return 0, time.Time{}
	}

	item := n.Values[len(n.Values)-1]
	value := 0.0

	if item.Value != nil {
		value = *item.Value
	}

	start := strings.SplitN(item.ValidTime, "/", 2)[0]
	validTime, _ := time.Parse(time.RFC3339, start)

	return value, validTime
}

type nwsGridResponse struct {
	Properties struct {
		WindDirection nwsGridSeries `json:"windDirection"`
		WindSpeed     nwsGridSeries `json:"windSpeed"`
		WindGust      nwsGridSeries `json:"windGust"`
	} `json:"properties"`
}

type nwsProvider struct {
	httpClient windlib.HTTPClient
}

func (n nwsProvider) Name() string {
	return NameNWS
}

func (n nwsProvider) Forecast(ctx context.Context, latitude, longitude float64) (windlib.Forecast, error) {
	rv := windlib.Forecast{}
	points := nwsPointsResponse{}
	pointsURL := fmt.Sprintf("%s/points/%s,%s",
		NWSBaseURL,
		formatCoordinate(latitude),
		formatCoordinate(longitude))

	if err := fetchJSON(ctx, n.httpClient, pointsURL, "application/geo+json", &points); err != nil {
		return rv, fmt.Errorf("cannot resolve a forecast grid: %w", err)
	}

	gridURL := points.gridDataURL()
	if gridURL == "" {
		return rv, ErrNoForecastGrid
	}

	grid := nwsGridResponse{}

	if err := fetchJSON(ctx, n.httpClient, gridURL, "application/geo+json", &grid); err != nil {
		return rv, fmt.Errorf("cannot fetch grid data: %w", err)
	}

	rv.WindSpeed, rv.ObservationTime = grid.Properties.WindSpeed.last()
	rv.WindDirection, _ = grid.Properties.WindDirection.last()
	rv.WindGust, _ = grid.Properties.WindGust.last()
	rv.LocationName = points.Properties.RelativeLocation.Properties.City
	rv.RegionName = points.Properties.RelativeLocation.Properties.State
	rv.PrefersImperial = true

	return rv, nil
}

// NewNWS returns a weather provider which uses api.weather.gov. It
// resolves coordinates into a forecast grid and takes the latest values
// of wind direction, speed and gusts for this grid. Speeds are in km/h.
//
//   Identifier: nws
//   Website: https://www.weather.gov/documentation/services-web-api
//
// This API works only for USA and requires a meaningful User-Agent.
func NewNWS(httpClient windlib.HTTPClient) windlib.WeatherProvider {
	return nwsProvider{
		httpClient: httpClient,
	}
}
