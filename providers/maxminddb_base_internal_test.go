package providers

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/9seconds/isitwindy/providers/mmdbtest"
	"github.com/stretchr/testify/suite"
)

type MaxMindDBBaseTestSuite struct {
	suite.Suite

	m      *maxmindBase
	tmpDir string
	dbPath string
}

func (suite *MaxMindDBBaseTestSuite) SetupTest() {
	suite.tmpDir = suite.T().TempDir()
	suite.dbPath = filepath.Join(suite.tmpDir, MaxmindFileName)
	suite.m = &maxmindBase{}

	err := mmdbtest.WriteFile(suite.dbPath, map[string]mmdbtest.City{
		"8.8.8.0/24": {
			CountryCode:  "us",
			Subdivisions: []string{"California"},
			City:         "Mountain View",
			Latitude:     37.386,
			Longitude:    -122.0838,
		},
		"81.2.69.0/24": {
			CountryCode:  "GB",
			Subdivisions: []string{"England", "Greater London"},
			City:         "London",
			Latitude:     51.5142,
			Longitude:    -0.0931,
		},
	})
	if err != nil {
		panic(err)
	}
}

func (suite *MaxMindDBBaseTestSuite) TearDownTest() {
	suite.m.Shutdown()
}

func (suite *MaxMindDBBaseTestSuite) TestOpenErrorNoFile() {
	suite.Error(suite.m.openFile(filepath.Join(suite.tmpDir, "nothing.mmdb")))
}

func (suite *MaxMindDBBaseTestSuite) TestOpenErrorBadFile() {
	path := filepath.Join(suite.tmpDir, "broken.mmdb")

	if err := os.WriteFile(path, []byte("not a database"), 0o600); err != nil {
		panic(err)
	}

	suite.Error(suite.m.openFile(path))
	suite.Nil(suite.m.reader)
}

func (suite *MaxMindDBBaseTestSuite) TestOpenOk() {
	suite.NoError(suite.m.openFile(suite.dbPath))
	suite.NotNil(suite.m.reader)
}

func (suite *MaxMindDBBaseTestSuite) TestReopen() {
	suite.NoError(suite.m.openFile(suite.dbPath))
	suite.NoError(suite.m.openFile(suite.dbPath))

	_, err := suite.m.Lookup(context.Background(), net.ParseIP("8.8.8.8"))

	suite.NoError(err)
}

func (suite *MaxMindDBBaseTestSuite) TestLookupNotReady() {
	_, err := suite.m.Lookup(context.Background(), net.ParseIP("8.8.8.8"))

	suite.True(errors.Is(err, ErrDatabaseIsNotReadyYet))
}

func (suite *MaxMindDBBaseTestSuite) TestLookupAfterShutdown() {
	suite.NoError(suite.m.openFile(suite.dbPath))

	suite.m.Shutdown()

	_, err := suite.m.Lookup(context.Background(), net.ParseIP("8.8.8.8"))

	suite.True(errors.Is(err, ErrDatabaseIsNotReadyYet))
}

func (suite *MaxMindDBBaseTestSuite) TestLookupBadIP() {
	suite.NoError(suite.m.openFile(suite.dbPath))

	_, err := suite.m.Lookup(context.Background(), nil)

	suite.Error(err)
}

func (suite *MaxMindDBBaseTestSuite) TestLookupNotFound() {
	suite.NoError(suite.m.openFile(suite.dbPath))

	result, err := suite.m.Lookup(context.Background(), net.ParseIP("1.1.1.1"))

	suite.True(errors.Is(err, ErrAddressNotFound))
	suite.Empty(result.CountryCode)
	suite.Zero(result.Latitude)
	suite.Zero(result.Longitude)
}

func (suite *MaxMindDBBaseTestSuite) TestLookupOk() {
	suite.NoError(suite.m.openFile(suite.dbPath))

	result, err := suite.m.Lookup(context.Background(), net.ParseIP("8.8.8.8"))

	suite.NoError(err)
	suite.Equal("US", result.CountryCode)
	suite.Equal("California", result.Subdivision)
	suite.Equal("Mountain View", result.City)
	suite.InDelta(37.386, result.Latitude, 1e-6)
	suite.InDelta(-122.0838, result.Longitude, 1e-6)
}

func (suite *MaxMindDBBaseTestSuite) TestLookupMostSpecificSubdivision() {
	suite.NoError(suite.m.openFile(suite.dbPath))

	result, err := suite.m.Lookup(context.Background(), net.ParseIP("81.2.69.142"))

	suite.NoError(err)
	suite.Equal("GB", result.CountryCode)
	suite.Equal("Greater London", result.Subdivision)
	suite.Equal("London", result.City)
}

func TestMaxMindDBBase(t *testing.T) {
	suite.Run(t, &MaxMindDBBaseTestSuite{})
}
