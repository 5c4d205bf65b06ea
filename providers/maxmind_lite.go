package providers

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/9seconds/isitwindy/windlib"
	"github.com/spf13/afero"
)

const (
	maxmindLiteArchiveName = "archive.tar.gz"
	maxmindLiteEditionID   = "GeoLite2-City"
)

var (
	// MaxmindLiteDownloadURL is an endpoint to fetch GeoLite2 databases.
	MaxmindLiteDownloadURL = "https://download.maxmind.com/app/geoip_download"

	maxmindChecksumRegexp = regexp.MustCompile(`(?i)^[a-f0-9]{64}$`)
)

type maxmindLiteProvider struct {
	maxmindBase

	baseDirectory string
	licenseKey    string
	updateEvery   time.Duration
	httpClient    windlib.HTTPClient
}

func (m *maxmindLiteProvider) Name() string {
	return NameMaxmindLite
}

func (m *maxmindLiteProvider) UpdateEvery() time.Duration {
	return m.updateEvery
}

func (m *maxmindLiteProvider) BaseDirectory() string {
	return m.baseDirectory
}

func (m *maxmindLiteProvider) Open(dir string) error {
	return m.openFile(filepath.Join(dir, MaxmindFileName))
}

// Download fetches a published SHA-256 of the latest archive, then
// the archive itself and unpacks the only .mmdb file out of it.
func (m *maxmindLiteProvider) Download(ctx context.Context, fs afero.Fs) error {
	published, err := m.fetchChecksum(ctx)
	if err != nil {
		return fmt.Errorf("cannot download a checksum: %w", err)
	}

	actual, err := m.fetchArchive(ctx, fs)
	if err != nil {
		return fmt.Errorf("cannot download an archive: %w", err)
	}

	defer fs.Remove(maxmindLiteArchiveName) // nolint: errcheck

	if !strings.EqualFold(published, actual) {
		return fmt.Errorf("checksum mismatch. expected=%s, actual=%s", published, actual)
	}

	if err := unpackMaxmindDatabase(fs, maxmindLiteArchiveName); err != nil {
		return fmt.Errorf("cannot extract archive: %w", err)
	}

	return nil
}

func (m *maxmindLiteProvider) fetchChecksum(ctx context.Context) (string, error) {
	buf := bytes.Buffer{}

	if err := fetch(ctx, m.httpClient, m.downloadURL("tar.gz.sha256"), &buf); err != nil {
		return "", err
	}

	// a format is "<sha256>  <filename>"
	fields := strings.Fields(buf.String())

	switch {
	case len(fields) == 0:
		return "", fmt.Errorf("incorrect response format: %q", buf.String())
	case !maxmindChecksumRegexp.MatchString(fields[0]):
		return "", fmt.Errorf("incorrect checksum format: %q", fields[0])
	}

	return fields[0], nil
}

// fetchArchive stores an archive into fs and returns its SHA-256.
func (m *maxmindLiteProvider) fetchArchive(ctx context.Context, fs afero.Fs) (string, error) {
	archive, err := fs.Create(maxmindLiteArchiveName)
	if err != nil {
		return "", fmt.Errorf("cannot create an archive file: %w", err)
	}

	defer archive.Close()

	hasher := sha256.New()

	if err := fetch(ctx, m.httpClient, m.downloadURL("tar.gz"), io.MultiWriter(archive, hasher)); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func (m *maxmindLiteProvider) downloadURL(suffix string) string {
	query := url.Values{}

	query.Set("edition_id", maxmindLiteEditionID)
	query.Set("suffix", suffix)
	query.Set("license_key", m.licenseKey)

	return MaxmindLiteDownloadURL + "?" + query.Encode()
}

// unpackMaxmindDatabase finds the first regular .mmdb file in a tar.gz
// archive and writes it as MaxmindFileName next to the archive.
func unpackMaxmindDatabase(fs afero.Fs, archiveName string) error {
	archive, err := fs.Open(archiveName)
	if err != nil {
		return fmt.Errorf("cannot open archive: %w", err)
	}

	defer archive.Close()

	gzipReader, err := gzip.NewReader(archive)
	if err != nil {
		return fmt.Errorf("cannot create a gzip reader: %w", err)
	}

	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()

		switch {
		case errors.Is(err, io.EOF):
			return ErrNoFile
		case err != nil:
			return fmt.Errorf("cannot extract a header: %w", err)
		case header.Typeflag != tar.TypeReg:
			continue
		case strings.EqualFold(filepath.Ext(header.Name), ".mmdb"):
			dir := filepath.Dir(archiveName)

			return afero.WriteReader(fs, filepath.Join(dir, MaxmindFileName), tarReader)
		}
	}
}

// NewMaxmindLite returns a new instance which works with lite
// databases from MaxMind. It downloads GeoLite2-City database with a
// given license key and refreshes it every updateEvery.
//
//   Identifier: maxmind_lite
//   Provider type: offline
//   Website: https://maxmind.com
func NewMaxmindLite(httpClient windlib.HTTPClient,
	updateEvery time.Duration,
	baseDirectory string,
	licenseKey string) (windlib.OfflineGeolocator, error) {
	if licenseKey == "" {
		return nil, ErrAuthTokenIsRequired
	}

	return &maxmindLiteProvider{
		httpClient:    httpClient,
		updateEvery:   updateEvery,
		baseDirectory: filepath.Clean(baseDirectory),
		licenseKey:    licenseKey,
	}, nil
}
