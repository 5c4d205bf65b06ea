package providers

import (
	"fmt"
	"path/filepath"

	"github.com/9seconds/isitwindy/windlib"
)

type maxmindFileProvider struct {
	maxmindBase
}

func (m *maxmindFileProvider) Name() string {
	return NameMaxmindFile
}

// NewMaxmindFile opens a MaxMind city database (GeoLite2-City or
// GeoIP2-City) from the given path. This database is never updated,
// it is opened once and shared by all lookups until Shutdown.
//
//   Identifier: maxmind_file
//   Provider type: static
func NewMaxmindFile(path string) (windlib.Geolocator, error) {
	prov := &maxmindFileProvider{}

	if err := prov.openFile(filepath.Clean(path)); err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}

	return prov, nil
}
