package providers

const (
	// Identifier for a static MaxMind database file.
	NameMaxmindFile = "maxmind_file"

	// Identifier for MaxMind GeoLite2 databases downloaded with license
	// key.
	NameMaxmindLite = "maxmind_lite"

	// Identifier for api.weather.gov.
	NameNWS = "nws"

	// Identifier for api.open-meteo.com with reverse geocoding by
	// api.geonames.org.
	NameOpenMeteo = "open_meteo"
)
