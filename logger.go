package main

import (
	"io"

	"github.com/9seconds/isitwindy/windlib"
	"github.com/rs/zerolog"
)

type logger struct {
	lookupLog  zerolog.Logger
	weatherLog zerolog.Logger
	updateLog  zerolog.Logger
}

func (l *logger) LookupInfo(ip string, result windlib.GeolocationResult) {
	l.lookupLog.Info().
		Str("ip", ip).
		Bool("success", result.Success).
		Str("country", result.Country).
		Str("state", result.State).
		Str("city", result.City).
		Float64("latitude", result.Latitude).
		Float64("longitude", result.Longitude).
		Msg("")
}

func (l *logger) LookupError(ip, name string, err error) {
	l.lookupLog.Error().Str("provider", name).Str("ip", ip).Err(err).Msg("")
}

func (l *logger) WeatherError(name string, latitude, longitude float64, err error) {
	l.weatherLog.Error().
		Str("provider", name).
		Float64("latitude", latitude).
		Float64("longitude", longitude).
		Err(err).
		Msg("")
}

func (l *logger) UpdateInfo(name, msg string) {
	l.updateLog.Info().Str("provider", name).Msg(msg)
}

func (l *logger) UpdateError(name string, err error) {
	l.updateLog.Error().Str("provider", name).Err(err).Msg("")
}

func newLogger(w io.Writer) windlib.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	return &logger{
		lookupLog:  zerolog.New(w).With().Timestamp().Str("event_name", "lookup").Logger(),
		weatherLog: zerolog.New(w).With().Timestamp().Str("event_name", "weather").Logger(),
		updateLog:  zerolog.New(w).With().Timestamp().Str("event_name", "update").Logger(),
	}
}
