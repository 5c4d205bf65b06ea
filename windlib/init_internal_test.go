package windlib

import (
	"context"
	"net"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"
)

type GeolocatorMock struct {
	mock.Mock
}

func (m *GeolocatorMock) Lookup(ctx context.Context, ip net.IP) (Location, error) {
	args := m.Called(ctx, ip)

	return args.Get(0).(Location), args.Error(1)
}

func (m *GeolocatorMock) Name() string {
	return m.Called().String(0)
}

type OfflineGeolocatorMock struct {
	GeolocatorMock
}

func (m *OfflineGeolocatorMock) Shutdown() {
	m.Called()
}

func (m *OfflineGeolocatorMock) UpdateEvery() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

func (m *OfflineGeolocatorMock) BaseDirectory() string {
	return m.Called().String(0)
}

func (m *OfflineGeolocatorMock) Open(dir string) error {
	return m.Called(dir).Error(0)
}

func (m *OfflineGeolocatorMock) Download(ctx context.Context, fs afero.Fs) error {
	return m.Called(ctx, fs).Error(0)
}

type WeatherProviderMock struct {
	mock.Mock
}

func (m *WeatherProviderMock) Forecast(ctx context.Context, latitude, longitude float64) (Forecast, error) {
	args := m.Called(ctx, latitude, longitude)

	return args.Get(0).(Forecast), args.Error(1)
}

func (m *WeatherProviderMock) Name() string {
	return m.Called().String(0)
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) LookupInfo(ip string, result GeolocationResult) {
	m.Called(ip, result)
}

func (m *LoggerMock) LookupError(ip, name string, err error) {
	m.Called(ip, name, err)
}

func (m *LoggerMock) WeatherError(name string, latitude, longitude float64, err error) {
	m.Called(name, latitude, longitude, err)
}

func (m *LoggerMock) UpdateInfo(name, msg string) {
	m.Called(name, msg)
}

func (m *LoggerMock) UpdateError(name string, err error) {
	m.Called(name, err)
}
