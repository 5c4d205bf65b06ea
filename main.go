package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/9seconds/isitwindy/windlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

const shutdownTimeout = 10 * time.Second

var (
	version = "dev"

	app = kingpin.New(
		"isitwindy",
		"Tells if it is windy where you are right now.")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("ISITWINDY_DEBUG").
		Bool()
	geonamesUsername = app.Flag("geonames-username", "A username for GeoNames API.").
				Envar("GEONAMES_USER_NAME").
				String()
	configFile = app.Arg("config-path", "Path to the config.").
			Required().
			File()
)

func init() {
	app.Version(version)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func makeServer(conf *config, logger windlib.Logger) (*http.Server, *windlib.Windy, error) {
	geolocator, err := makeGeolocator(conf)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create a geolocator: %w", err)
	}

	weather, err := makeWeatherProvider(conf)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create a weather provider: %w", err)
	}

	windy, err := windlib.NewWindy(geolocator, weather, logger, conf.GetRequestTimeout())
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create windy instance: %w", err)
	}

	srv := &http.Server{
		Addr:              conf.GetListen(),
		Handler:           windy,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	return srv, windy, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Cannot load .env file")
	}

	kingpin.MustParse(app.Parse(os.Args[1:]))

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	conf, err := parseConfig(*configFile)

	(*configFile).Close()

	if err != nil {
		log.Fatal().Err(err).Msg("Cannot parse config")
	}

	if *geonamesUsername != "" {
		conf.Weather.GeonamesUsername = *geonamesUsername
	}

	log.Debug().
		Str("listen", conf.GetListen()).
		Str("root_directory", conf.GetRootDirectory()).
		Str("weather_provider", conf.Weather.GetProvider()).
		Bool("geolocation_downloads", conf.Geolocation.IsDownloadable()).
		Msg("Config has been parsed")

	srv, windy, err := makeServer(conf, newLogger(os.Stderr))
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot initialize a server")
	}

	rootCtx, cancel := makeRootContext()
	defer cancel()

	go func() {
		<-rootCtx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Cannot gracefully shutdown a server")
		}
	}()

	log.Info().Str("listen", conf.GetListen()).Str("version", version).Msg("Server has started")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		windy.Shutdown()
		log.Fatal().Err(err).Msg("Server has stopped")
	}

	windy.Shutdown()
	log.Info().Msg("Server has stopped")
}
