package integration_tests

import (
	"errors"
	"log"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/getAlby/relayadmin.go/lib/logging"
	"github.com/getAlby/relayadmin.go/lib/responses"
	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// DBFailureTestSuite runs the api against a database that fails every query
type DBFailureTestSuite struct {
	TestSuite
	service *service.RelayAdminService
	mock    sqlmock.Sqlmock
}

func (suite *DBFailureTestSuite) SetupTest() {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		log.Fatalf("failed to create sqlmock: %v", err)
	}
	c := &service.Config{
		DatabaseUri:     ":memory:",
		RelayConfigPath: "/nonexistent/config.toml",
		JWTSecret:       []byte("SECRET"),
		ChallengeExpiry: 300,
	}
	svc, err := service.NewRelayAdminService(c, bun.NewDB(sqlDB, sqlitedialect.New()), logging.Logger(""))
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.mock = mock
	suite.echo = newTestEcho(svc)
}

func (suite *DBFailureTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.service.DB.Close()
}

func (suite *DBFailureTestSuite) TestListBannedFails() {
	suite.mock.ExpectQuery(`SELECT .* FROM "banned_pubkeys"`).WillReturnError(errors.New("disk I/O error"))

	rec := suite.doRequest(http.MethodGet, "/api/banned", nil)
	errorResponse := checkErrResponse(&suite.TestSuite, rec, http.StatusInternalServerError)
	assert.Equal(suite.T(), responses.GeneralServerError.Code, errorResponse.Code)
	// internal errors are not leaked
	assert.Equal(suite.T(), responses.GeneralServerError.Message, errorResponse.Message)
}

func (suite *DBFailureTestSuite) TestDeleteEventRollsBack() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`DELETE FROM "event"`).WillReturnError(errors.New("database is locked"))
	suite.mock.ExpectRollback()

	rec := suite.doRequest(http.MethodDelete, "/api/events/42", nil)
	checkErrResponse(&suite.TestSuite, rec, http.StatusInternalServerError)
}

func (suite *DBFailureTestSuite) TestHealthFails() {
	suite.mock.ExpectPing().WillReturnError(errors.New("unable to open database file"))

	rec := suite.doRequest(http.MethodGet, "/api/health", nil)
	checkErrResponse(&suite.TestSuite, rec, http.StatusInternalServerError)
}

func TestDBFailureSuite(t *testing.T) {
	suite.Run(t, new(DBFailureTestSuite))
}
