package integration_tests

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type StatsTestSuite struct {
	TestSuite
	service *service.RelayAdminService
}

func (suite *StatsTestSuite) SetupSuite() {
	svc, err := RelayAdminTestServiceInit("")
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.echo = newTestEcho(svc)
}

func (suite *StatsTestSuite) TearDownTest() {
	clearTable(suite.service, "event")
	clearTable(suite.service, "banned_pubkeys")
}

func (suite *StatsTestSuite) TearDownSuite() {
	removeTestFiles(suite.service)
}

func (suite *StatsTestSuite) getStats() *service.Stats {
	rec := suite.doRequest(http.MethodGet, "/api/stats", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	stats := &service.Stats{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(stats))
	return stats
}

func (suite *StatsTestSuite) TestEmptyRelay() {
	stats := suite.getStats()
	assert.Equal(suite.T(), int64(0), stats.TotalEvents)
	assert.Equal(suite.T(), int64(0), stats.DistinctPubkeys)
	assert.Equal(suite.T(), float64(0), stats.DMPercentage)
	assert.Equal(suite.T(), "N/A", stats.OldestEventDate)
	assert.Empty(suite.T(), stats.TopKinds)
	assert.Empty(suite.T(), stats.TopUsers)
	assert.NotEqual(suite.T(), "N/A", stats.DBSize)
}

func (suite *StatsTestSuite) TestStats() {
	alice, bob, carol := randomHex(32), randomHex(32), randomHex(32)
	now := time.Now()
	fixtures := []struct {
		pubkey string
		kind   int64
		age    time.Duration
	}{
		{alice, 1, 10 * time.Minute},
		{alice, 1, 30 * time.Hour},
		{bob, 4, 2 * time.Hour},
		{bob, 1, 20 * time.Minute},
		{carol, 7, 48 * time.Hour},
	}
	for _, f := range fixtures {
		_, err := insertEvent(suite.service, f.pubkey, f.kind, "content", now.Add(-f.age))
		assert.NoError(suite.T(), err)
	}
	_, err := suite.service.BanPubkey(context.Background(), carol, "")
	assert.NoError(suite.T(), err)

	stats := suite.getStats()
	assert.Equal(suite.T(), int64(5), stats.TotalEvents)
	assert.Equal(suite.T(), int64(3), stats.DistinctPubkeys)
	assert.Equal(suite.T(), int64(1), stats.BannedPubkeys)
	assert.Equal(suite.T(), int64(3), stats.Events24h)
	assert.Equal(suite.T(), int64(2), stats.Events1h)
	// alice has an older event, carol's only event is two days old
	assert.Equal(suite.T(), int64(1), stats.NewUsers24h)
	assert.Equal(suite.T(), 20.0, stats.DMPercentage)

	assert.Len(suite.T(), stats.TopKinds, 3)
	assert.Equal(suite.T(), service.KindCount{Kind: 1, Count: 3}, stats.TopKinds[0])

	assert.Len(suite.T(), stats.TopUsers, 3)
	assert.Equal(suite.T(), int64(2), stats.TopUsers[0].Count)
	assert.Contains(suite.T(), []string{alice, bob}, stats.TopUsers[0].Pubkey)
	assert.Equal(suite.T(), service.AuthorCount{Pubkey: carol, Count: 1}, stats.TopUsers[2])

	assert.Equal(suite.T(), now.Add(-48*time.Hour).Format("02. Jan 2006"), stats.OldestEventDate)
}

func (suite *StatsTestSuite) TestTopListsAreCapped() {
	now := time.Now()
	for kind := int64(1); kind <= 7; kind++ {
		_, err := insertEvent(suite.service, randomHex(32), kind, "", now)
		assert.NoError(suite.T(), err)
	}
	stats, err := suite.service.GetStats(context.Background(), now)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), stats.TopKinds, 5)
	assert.Len(suite.T(), stats.TopUsers, 5)
	assert.Equal(suite.T(), int64(7), stats.NewUsers24h)
}

func TestStatsSuite(t *testing.T) {
	suite.Run(t, new(StatsTestSuite))
}
