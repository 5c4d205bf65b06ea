package providers

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/9seconds/isitwindy/windlib"
	"github.com/oschwald/maxminddb-golang"
)

// MaxmindFileName is a name of the city database within a directory.
const MaxmindFileName = "GeoLite2-City.mmdb"

type maxmindNames struct {
	Names map[string]string `maxminddb:"names"`
}

type maxmindCityRecord struct {
	City    maxmindNames `maxminddb:"city"`
	Country struct {
		IsoCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
	Subdivisions []maxmindNames `maxminddb:"subdivisions"`
	Location     struct {
		Latitude  float64 `maxminddb:"latitude"`
		Longitude float64 `maxminddb:"longitude"`
	} `maxminddb:"location"`
}

func (m maxmindCityRecord) toLocation() windlib.Location {
	location := windlib.Location{
		CountryCode: strings.ToUpper(m.Country.IsoCode),
		City:        m.City.Names["en"],
		Latitude:    m.Location.Latitude,
		Longitude:   m.Location.Longitude,
	}

	// subdivisions go from the largest to the smallest one
	if n := len(m.Subdivisions); n > 0 {
		location.Subdivision = m.Subdivisions[n-1].Names["en"]
	}

	return location
}

// maxmindBase is shared by all MaxMind geolocators. Lookups run
// concurrently under read lock, replacing or closing a reader takes a
// write lock.
type maxmindBase struct {
	reader *maxminddb.Reader
	lock   sync.RWMutex
}

func (m *maxmindBase) Lookup(_ context.Context, ip net.IP) (windlib.Location, error) {
	record := maxmindCityRecord{}

	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.reader == nil {
		return windlib.Location{}, ErrDatabaseIsNotReadyYet
	}

	_, found, err := m.reader.LookupNetwork(ip, &record)

	switch {
	case err != nil:
		return windlib.Location{}, fmt.Errorf("cannot lookup this ip address: %w", err)
	case !found:
		return windlib.Location{}, fmt.Errorf("%w: %s", ErrAddressNotFound, ip)
	}

	return record.toLocation(), nil
}

func (m *maxmindBase) Shutdown() {
	m.swap(nil)
}

func (m *maxmindBase) openFile(path string) error {
	reader, err := maxminddb.Open(path)
	if err != nil {
		return fmt.Errorf("cannot initialize a reader of maxminddb: %w", err)
	}

	m.swap(reader)

	return nil
}

func (m *maxmindBase) swap(reader *maxminddb.Reader) {
	m.lock.Lock()
	previous := m.reader
	m.reader = reader
	m.lock.Unlock()

	if previous != nil {
		previous.Close()
	}
}
