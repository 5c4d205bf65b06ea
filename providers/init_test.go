package providers_test

import (
	"net/http"
	"time"

	"github.com/9seconds/isitwindy/windlib"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"
)

// ProviderTestSuite gives each test a permissive HTTP client and an
// empty directory which is removed after the test.
type ProviderTestSuite struct {
	suite.Suite

	http          windlib.HTTPClient
	baseDirectory string
}

func (suite *ProviderTestSuite) SetupTest() {
	suite.http = windlib.NewHTTPClient(&http.Client{},
		"isitwindy-test/1.0",
		time.Millisecond,
		100,
		1000,
		time.Minute,
		time.Minute)
	suite.baseDirectory = suite.T().TempDir()
}

// MockedProviderTestSuite intercepts all requests made with default
// transport.
type MockedProviderTestSuite struct {
	ProviderTestSuite
}

func (suite *MockedProviderTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *MockedProviderTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *MockedProviderTestSuite) TearDownTest() {
	httpmock.Reset()
}

// CallsTo returns how many times GET endpoint was requested. endpoint
// should include a query if responder was registered with it.
func (suite *MockedProviderTestSuite) CallsTo(endpoint string) int {
	return httpmock.GetCallCountInfo()["GET "+endpoint]
}
