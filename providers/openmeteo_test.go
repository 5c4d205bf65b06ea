package providers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/9seconds/isitwindy/providers"
	"github.com/9seconds/isitwindy/windlib"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"
)

const (
	openMeteoQuery = "latitude=40.7128&longitude=-74.0060&current=wind_speed_10m,wind_direction_10m,wind_gusts_10m"
	geonamesQuery  = "formatted=true&lat=40.710335&lng=-73.99307&username=demo&cities=cities5000"

	openMeteoBody = `{
  "latitude": 40.710335,
  "longitude": -73.99307,
  "current_units": {"wind_speed_10m": "km/h"},
  "current": {
    "time": "2024-03-01T12:15",
    "interval": 900,
    "wind_speed_10m": 21.3,
    "wind_direction_10m": 290,
    "wind_gusts_10m": 40.7
  }
}`
	geonamesBody = `{
  "geonames": [
    {
      "name": "New York City",
      "adminCode1": "NY",
      "countryCode": "US",
      "lat": "40.71427",
      "lng": "-74.00597",
      "distance": "1.0981"
    }
  ]
}`
)

type OpenMeteoTestSuite struct {
	MockedProviderTestSuite

	prov windlib.WeatherProvider
}

func (suite *OpenMeteoTestSuite) SetupTest() {
	suite.MockedProviderTestSuite.SetupTest()

	prov, err := providers.NewOpenMeteo(suite.http, "demo")
	if err != nil {
		panic(err)
	}

	suite.prov = prov
}

func (suite *OpenMeteoTestSuite) registerForecast(responder httpmock.Responder) {
	httpmock.RegisterResponderWithQuery(http.MethodGet,
		providers.OpenMeteoForecastURL,
		openMeteoQuery,
		responder)
}

func (suite *OpenMeteoTestSuite) registerPlace(responder httpmock.Responder) {
	httpmock.RegisterResponderWithQuery(http.MethodGet,
		providers.GeonamesNearbyPlaceURL,
		geonamesQuery,
		responder)
}

func (suite *OpenMeteoTestSuite) TestNoUsername() {
	_, err := providers.NewOpenMeteo(suite.http, "")

	suite.ErrorIs(err, providers.ErrAuthTokenIsRequired)
}

func (suite *OpenMeteoTestSuite) TestName() {
	suite.Equal(providers.NameOpenMeteo, suite.prov.Name())
}

func (suite *OpenMeteoTestSuite) TestForecastFailed() {
	suite.registerForecast(httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	_, err := suite.prov.Forecast(context.Background(), 40.7128, -74.006)

	suite.Error(err)
}

func (suite *OpenMeteoTestSuite) TestForecastBadJSON() {
	suite.registerForecast(httpmock.NewStringResponder(http.StatusOK, "[]"))

	_, err := suite.prov.Forecast(context.Background(), 40.7128, -74.006)

	suite.Error(err)
}

func (suite *OpenMeteoTestSuite) TestForecastBadTime() {
	suite.registerForecast(httpmock.NewStringResponder(http.StatusOK,
		`{"latitude": 40.710335, "longitude": -73.99307, "current": {"time": "yesterday"}}`))

	_, err := suite.prov.Forecast(context.Background(), 40.7128, -74.006)

	suite.Error(err)
}

func (suite *OpenMeteoTestSuite) TestPlaceFailed() {
	suite.registerForecast(httpmock.NewStringResponder(http.StatusOK, openMeteoBody))
	suite.registerPlace(httpmock.NewStringResponder(http.StatusBadGateway, ""))

	_, err := suite.prov.Forecast(context.Background(), 40.7128, -74.006)

	suite.Error(err)
}

func (suite *OpenMeteoTestSuite) TestPlaceStatus() {
	suite.registerForecast(httpmock.NewStringResponder(http.StatusOK, openMeteoBody))
	suite.registerPlace(httpmock.NewStringResponder(http.StatusOK,
		`{"status": {"message": "user account not enabled to use the free webservice", "value": 10}}`))

	_, err := suite.prov.Forecast(context.Background(), 40.7128, -74.006)

	suite.Error(err)
	suite.Contains(err.Error(), "user account not enabled")
}

func (suite *OpenMeteoTestSuite) TestNoPlaces() {
	suite.registerForecast(httpmock.NewStringResponder(http.StatusOK, openMeteoBody))
	suite.registerPlace(httpmock.NewStringResponder(http.StatusOK, `{"geonames": []}`))

	forecast, err := suite.prov.Forecast(context.Background(), 40.7128, -74.006)

	suite.NoError(err)
	suite.InDelta(21.3, forecast.WindSpeed, 1e-6)
	suite.Empty(forecast.LocationName)
	suite.Empty(forecast.RegionName)
	suite.False(forecast.PrefersImperial)
}

func (suite *OpenMeteoTestSuite) TestOk() {
	suite.registerForecast(httpmock.NewStringResponder(http.StatusOK, openMeteoBody))
	suite.registerPlace(httpmock.NewStringResponder(http.StatusOK, geonamesBody))

	forecast, err := suite.prov.Forecast(context.Background(), 40.7128, -74.006)

	suite.NoError(err)
	suite.InDelta(21.3, forecast.WindSpeed, 1e-6)
	suite.InDelta(290, forecast.WindDirection, 1e-6)
	suite.InDelta(40.7, forecast.WindGust, 1e-6)
	suite.Equal("New York City", forecast.LocationName)
	suite.Equal("NY", forecast.RegionName)
	suite.True(forecast.PrefersImperial)
	suite.True(forecast.ObservationTime.Equal(
		time.Date(2024, time.March, 1, 12, 15, 0, 0, time.UTC)))
}

func (suite *OpenMeteoTestSuite) TestNotImperial() {
	suite.registerForecast(httpmock.NewStringResponder(http.StatusOK, openMeteoBody))
	suite.registerPlace(httpmock.NewStringResponder(http.StatusOK,
		`{"geonames": [{"name": "Toronto", "adminCode1": "08", "countryCode": "CA", "lat": "43.7", "lng": "-79.4", "distance": "3.2"}]}`))

	forecast, err := suite.prov.Forecast(context.Background(), 40.7128, -74.006)

	suite.NoError(err)
	suite.Equal("Toronto", forecast.LocationName)
	suite.False(forecast.PrefersImperial)
}

func TestOpenMeteo(t *testing.T) {
	suite.Run(t, &OpenMeteoTestSuite{})
}
