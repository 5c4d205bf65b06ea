// Package mmdbtest builds small MaxMind city databases for tests.
package mmdbtest

import (
	"fmt"
	"io"
	"net"
	"os"

	"github.com/maxmind/mmdbwriter"
	"github.com/maxmind/mmdbwriter/mmdbtype"
)

// City is a record of the database.
type City struct {
	CountryCode  string
	Subdivisions []string
	City         string
	Latitude     float64
	Longitude    float64
}

// Write serializes records (network in CIDR notation to city) as a
// GeoLite2-City database.
func Write(w io.Writer, records map[string]City) error {
	tree, err := mmdbwriter.New(mmdbwriter.Options{
		DatabaseType: "GeoLite2-City",
		RecordSize:   24,
	})
	if err != nil {
		return fmt.Errorf("cannot create a tree: %w", err)
	}

	for cidr, city := range records {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			return fmt.Errorf("incorrect network %s: %w", cidr, err)
		}

		if err := tree.Insert(network, city.toMap()); err != nil {
			return fmt.Errorf("cannot insert %s: %w", cidr, err)
		}
	}

	if _, err := tree.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write a database: %w", err)
	}

	return nil
}

// WriteFile is Write into a file.
func WriteFile(path string, records map[string]City) error {
	fp, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}

	defer fp.Close()

	return Write(fp, records)
}

func (c City) toMap() mmdbtype.Map {
	subdivisions := mmdbtype.Slice{}

	for _, v := range c.Subdivisions {
		subdivisions = append(subdivisions, mmdbtype.Map{
			"names": mmdbtype.Map{"en": mmdbtype.String(v)},
		})
	}

	return mmdbtype.Map{
		"country": mmdbtype.Map{
			"iso_code": mmdbtype.String(c.CountryCode),
		},
		"city": mmdbtype.Map{
			"names": mmdbtype.Map{"en": mmdbtype.String(c.City)},
		},
		"subdivisions": subdivisions,
		"location": mmdbtype.Map{
			"latitude":  mmdbtype.Float64(c.Latitude),
			"longitude": mmdbtype.Float64(c.Longitude),
		},
	}
}
