package windlib_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/9seconds/isitwindy/windlib"
	"github.com/stretchr/testify/suite"
)

type usageStatsJSON struct {
	Name         string `json:"name"`
	LastUpdated  int64  `json:"last_updated"`
	LastUsed     int64  `json:"last_used"`
	LastError    string `json:"last_error"`
	SuccessCount uint64 `json:"success_count"`
	FailureCount uint64 `json:"failure_count"`
}

type UsageStatsTestSuite struct {
	suite.Suite

	u *windlib.UsageStats
}

func (suite *UsageStatsTestSuite) SetupTest() {
	suite.u = &windlib.UsageStats{
		Name: "nws",
	}
}

func (suite *UsageStatsTestSuite) Dump() usageStatsJSON {
	data, err := json.Marshal(suite.u)

	suite.NoError(err)

	rv := usageStatsJSON{}

	suite.NoError(json.Unmarshal(data, &rv))

	return rv
}

func (suite *UsageStatsTestSuite) TestEmpty() {
	suite.Equal(usageStatsJSON{Name: "nws"}, suite.Dump())
}

func (suite *UsageStatsTestSuite) TestUsed() {
	suite.u.Used(nil)
	suite.u.Used(errors.New("api.weather.gov has responded with 500"))
	suite.u.Used(nil)

	dump := suite.Dump()

	suite.EqualValues(2, dump.SuccessCount)
	suite.EqualValues(1, dump.FailureCount)
	suite.Zero(dump.LastUpdated)
	suite.Equal("api.weather.gov has responded with 500", dump.LastError)
	suite.WithinDuration(time.Now(), time.Unix(dump.LastUsed, 0), 2*time.Second)
}

func (suite *UsageStatsTestSuite) TestLastErrorSurvivesSuccess() {
	suite.u.Used(errors.New("first"))
	suite.u.Used(errors.New("second"))
	suite.u.Used(nil)

	snapshot := suite.u.Snapshot()

	suite.Equal("nws", snapshot.Name)
	suite.Equal("second", snapshot.LastError)
	suite.EqualValues(1, snapshot.SuccessCount)
	suite.EqualValues(2, snapshot.FailureCount)
}

func (suite *UsageStatsTestSuite) TestUpdated() {
	suite.u.Updated()

	dump := suite.Dump()

	suite.Zero(dump.LastUsed)
	suite.WithinDuration(time.Now(), time.Unix(dump.LastUpdated, 0), 2*time.Second)
}

func (suite *UsageStatsTestSuite) TestConcurrentUse() {
	wg := &sync.WaitGroup{}

	wg.Add(100)

	for i := 0; i < 100; i++ {
		go func(i int) {
			defer wg.Done()

			if i%4 == 0 {
				suite.u.Used(errors.New("failure"))
			} else {
				suite.u.Used(nil)
			}
		}(i)
	}

	wg.Wait()

	dump := suite.Dump()

	suite.EqualValues(75, dump.SuccessCount)
	suite.EqualValues(25, dump.FailureCount)
}

func TestUsageStats(t *testing.T) {
	suite.Run(t, &UsageStatsTestSuite{})
}
